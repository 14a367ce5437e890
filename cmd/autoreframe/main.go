package main

import "github.com/framewright/autoreframe/internal/commands"

func main() {
	commands.Execute()
}
