package client

import (
	"context"
	"github.com/framewright/autoreframe/pkg/types"
)

// VisionClient is the backend-agnostic interface to a multimodal model
// server. Implementations exist for Ollama and llama.cpp.
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	LocateFocus(ctx context.Context, model, prompt, imgB64 string) (*types.SalientPoint, error)
}
