package ingest

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Transcoder converts a downloaded video into a preview asset.
type Transcoder interface {
	Transcode(ctx context.Context, input, output string) error
}

// FFmpegTranscoder shells out to ffmpeg and produces an infinitely looping
// WebP preview at the original dimensions.
type FFmpegTranscoder struct {
	// Path is the ffmpeg binary, "ffmpeg" by default.
	Path string
	// Quality is the WebP quality setting (0-100).
	Quality int
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, input, output string) error {
	bin := t.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin,
		"-i", input,
		"-c:v", "libwebp",
		"-loop", "0", // infinite looping
		"-q:v", strconv.Itoa(t.Quality),
		"-preset", "default",
		"-y",
		output,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, string(out))
	}
	return nil
}
