package ffmpeg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	JpegSOI = []byte{0xFF, 0xD8} // Start of Image
	JpegEOI = []byte{0xFF, 0xD9} // End of Image
)

// VideoInfo holds the stream properties needed for scanning and rendering.
type VideoInfo struct {
	Width       int
	Height      int
	TotalFrames int
	FPS         float64
}

type ffprobeOutput struct {
	Streams []struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		RFrameRate    string `json:"r_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
	} `json:"streams"`
}

// Probe reads the video stream properties with ffprobe. When the container
// metadata carries no frame count it falls back to counting packets, which
// is slower but reliable for VFR files.
func Probe(path string) (*VideoInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	cmd := exec.Command("ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames", "-of", "json", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var res ffprobeOutput
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}
	if len(res.Streams) == 0 {
		return nil, fmt.Errorf("no video stream in %s", path)
	}

	s := res.Streams[0]
	info := &VideoInfo{
		Width:  s.Width,
		Height: s.Height,
		FPS:    parseFrameRate(s.RFrameRate),
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("invalid stream dimensions %dx%d in %s", info.Width, info.Height, path)
	}

	if count, err := strconv.Atoi(s.NbFrames); err == nil && count > 0 {
		info.TotalFrames = count
		return info, nil
	}

	info.TotalFrames = countPackets(path)
	return info, nil
}

// countPackets is the slow path for frame counting. It returns 0 on
// failure so callers can fall back to a spinner instead of a bar.
func countPackets(path string) int {
	cmd := exec.Command("ffprobe", "-v", "error", "-select_streams", "v:0", "-count_packets",
		"-show_entries", "stream=nb_read_packets", "-of", "json", path)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	var res ffprobeOutput
	if err := json.Unmarshal(out, &res); err != nil || len(res.Streams) == 0 {
		return 0
	}
	count, err := strconv.Atoi(res.Streams[0].NbReadPackets)
	if err != nil {
		return 0
	}
	return count
}

// parseFrameRate converts ffprobe's rational rate ("30000/1001") to a float.
func parseFrameRate(rate string) float64 {
	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}

// NewDecodeCmd creates a decoder pipe that writes raw MJPEG frames to
// Stdout, which SplitJpeg can carve back into individual images.
func NewDecodeCmd(inputPath string) *exec.Cmd {
	return exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-i", inputPath, "-f", "image2pipe", "-vcodec", "mjpeg", "-")
}

// NewEncodeCmd creates an encoder that reads MJPEG frames from Stdin and
// writes an H.264 file.
func NewEncodeCmd(outputPath string, fps float64) *exec.Cmd {
	return exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error", "-y",
		"-f", "image2pipe", "-vcodec", "mjpeg", "-framerate", formatRate(fps),
		"-i", "-",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", outputPath)
}

// NewAudioMergeCmd muxes the audio track of source onto the video track
// of videoPath without re-encoding the video.
func NewAudioMergeCmd(videoPath, source, outputPath string) *exec.Cmd {
	return exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error", "-y",
		"-i", videoPath, "-i", source,
		"-map", "0:v:0", "-map", "1:a:0?",
		"-c:v", "copy", "-c:a", "aac", "-shortest", outputPath)
}

// Reap kills a started command and waits for it so the child never
// lingers as a zombie. Errors are ignored; callers use it on paths that
// are already failing.
func Reap(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
	cmd.Wait()
}

func formatRate(fps float64) string {
	if fps <= 0 {
		fps = 30
	}
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

// SplitJpeg is a bufio.Scanner split function that carves complete JPEG
// images out of an MJPEG byte stream using the SOI/EOI markers.
func SplitJpeg(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	start := bytes.Index(data, JpegSOI)
	if start == -1 {
		return 0, nil, nil
	}
	end := bytes.Index(data[start:], JpegEOI)
	if end == -1 {
		return 0, nil, nil
	}
	return start + end + 2, data[start : start+end+2], nil
}
