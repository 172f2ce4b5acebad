// Package ffmpeg wraps the external transformation tool behind a capability
// interface so the pipeline can be tested without invoking real encoders.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrFFmpegNotFound  = fmt.Errorf("ffmpeg binary not found")
	ErrFFprobeNotFound = fmt.Errorf("ffprobe binary not found")
)

// Plan is one fully resolved tool invocation: an ordered argument list and
// the output path the tool is expected to write on success.
type Plan struct {
	Args       []string
	OutputPath string
}

// Runner executes transformation plans and inspects media files. The
// invocation is all-or-nothing; no partial progress is reported.
type Runner interface {
	Run(ctx context.Context, plan Plan) error
	Probe(ctx context.Context, path string) (*MediaInfo, error)
}

type execRunner struct {
	ffmpegPath  string
	ffprobePath string
}

// NewExecRunner returns a Runner backed by the ffmpeg and ffprobe binaries.
// Empty paths fall back to PATH lookup.
func NewExecRunner(ffmpegPath, ffprobePath string) (Runner, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if _, err := exec.LookPath(ffmpegPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	if _, err := exec.LookPath(ffprobePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFFprobeNotFound, err)
	}
	return &execRunner{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// Available reports whether an ffmpeg binary can be resolved. Used by the
// health endpoint.
func Available(ffmpegPath string) bool {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	_, err := exec.LookPath(ffmpegPath)
	return err == nil
}

func (r *execRunner) Run(ctx context.Context, plan Plan) error {
	args := append([]string{"-hide_banner", "-nostdin"}, plan.Args...)
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, tail(stderr.String(), 2048))
	}
	return nil
}

// tail keeps the last n bytes of the tool's stderr, where the actual error
// message lands.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
