package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"lipsync/internal/services"
	"lipsync/internal/timeline"
)

// Request describes one composition. Mouth and Blink interval labels carry
// resolved image paths, not symbolic labels.
type Request struct {
	Mouth       []timeline.Interval
	Blink       []timeline.Interval
	Background  string
	AudioPath   string
	OutputPath  string
	Codec       string
	PixelFormat string
}

// buildComposeArgs translates a Request into ffmpeg arguments. Input order is
// mouth chunks, blink chunks, background, audio; the filter graph
// concatenates each image track, overlays the mouth track onto the
// background, then overlays the blink track on top.
func buildComposeArgs(req Request) ([]string, error) {
	if len(req.Mouth) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "compose", "no mouth chunks", nil)
	}
	if req.AudioPath == "" {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "compose", "audio path required", nil)
	}
	if req.OutputPath == "" {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "compose", "output path required", nil)
	}
	codec := req.Codec
	if codec == "" {
		codec = "qtrle"
	}
	pixelFormat := req.PixelFormat
	if pixelFormat == "" {
		pixelFormat = "argb"
	}

	args := []string{"-y"}
	for _, chunk := range req.Mouth {
		args = append(args, "-loop", "1", "-t", formatSeconds(chunk.Duration), "-i", chunk.Label)
	}
	for _, chunk := range req.Blink {
		args = append(args, "-loop", "1", "-t", formatSeconds(chunk.Duration), "-i", chunk.Label)
	}

	backgroundIndex := -1
	next := len(req.Mouth) + len(req.Blink)
	if req.Background != "" {
		backgroundIndex = next
		next++
		args = append(args, "-i", req.Background)
	}
	audioIndex := next
	args = append(args, "-i", req.AudioPath)

	var graph []string
	graph = append(graph, concatFilter(0, len(req.Mouth), "mouth"))
	current := "mouth"
	if backgroundIndex >= 0 {
		graph = append(graph, fmt.Sprintf("[%d:v][%s]overlay[bg]", backgroundIndex, current))
		current = "bg"
	}
	if len(req.Blink) > 0 {
		graph = append(graph, concatFilter(len(req.Mouth), len(req.Blink), "blink"))
		graph = append(graph, fmt.Sprintf("[%s][blink]overlay[vout]", current))
		current = "vout"
	}

	args = append(args,
		"-filter_complex", strings.Join(graph, ";"),
		"-map", "["+current+"]",
		"-map", fmt.Sprintf("%d:a", audioIndex),
		"-c:v", codec,
		"-pix_fmt", pixelFormat,
		req.OutputPath,
	)
	return args, nil
}

func concatFilter(firstInput, count int, out string) string {
	var b strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "[%d:v]", firstInput+i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=0[%s]", count, out)
	return b.String()
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 6, 64)
}
