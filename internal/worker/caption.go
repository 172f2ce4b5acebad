package worker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

const (
	defaultFontSize = 36
	defaultColor    = "white"
	// captionMargin keeps anchored text off the frame edge, in pixels.
	captionMargin = 20
)

type captionStrategy struct {
	runner ffmpeg.Runner
}

func newCaptionStrategy(runner ffmpeg.Runner) Strategy {
	return &captionStrategy{runner: runner}
}

func (s *captionStrategy) Kind() models.Operation {
	return models.OperationCaption
}

func (s *captionStrategy) Execute(ctx context.Context, job *models.EditJob, ws *Workspace, inputs []string, report ProgressFunc) (string, error) {
	req := job.Request.Caption
	input := inputs[0]

	info, err := s.runner.Probe(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to probe input: %w", err)
	}

	x, y, err := ResolveCaptionPosition(req.Position, info.Width, info.Height)
	if err != nil {
		return "", err
	}

	fontSize := req.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	color := req.Color
	if color == "" {
		color = defaultColor
	}

	drawtext := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s:x=%s:y=%s",
		escapeDrawText(req.Text), fontSize, color, x, y)

	output := ws.Path("captioned.mp4")
	plan := ffmpeg.Plan{
		Args: []string{
			"-i", input,
			"-vf", drawtext,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "23",
			"-c:a", "aac",
			"-b:a", "128k",
			"-movflags", "+faststart",
			"-y", output,
		},
		OutputPath: output,
	}

	report(models.StatusTransforming, progressDownloadEnd+5)
	if err := s.runner.Run(ctx, plan); err != nil {
		return "", fmt.Errorf("caption burn-in failed: %w", err)
	}
	report(models.StatusTransforming, progressTransformEnd)
	return output, nil
}

// ResolveCaptionPosition maps a caption position onto drawtext x/y operands
// for the given frame dimensions. Named anchors resolve to fixed formulas in
// terms of the rendered text box; percentage coordinates map linearly to
// exact pixel integers, rounded half up.
func ResolveCaptionPosition(pos models.CaptionPosition, width, height int) (string, string, error) {
	if pos.X != nil || pos.Y != nil {
		if pos.X == nil || pos.Y == nil {
			return "", "", fmt.Errorf("caption position requires both x and y percentages")
		}
		x := roundHalfUp(float64(width) * *pos.X / 100)
		y := roundHalfUp(float64(height) * *pos.Y / 100)
		return strconv.Itoa(x), strconv.Itoa(y), nil
	}

	switch pos.Anchor {
	case "top":
		return "(w-text_w)/2", strconv.Itoa(captionMargin), nil
	case "center":
		return "(w-text_w)/2", "(h-text_h)/2", nil
	case "bottom", "":
		// default anchor: a fixed margin above the bottom edge
		return "(w-text_w)/2", fmt.Sprintf("h-text_h-%d", captionMargin), nil
	}
	return "", "", fmt.Errorf("unknown caption anchor %q", pos.Anchor)
}
