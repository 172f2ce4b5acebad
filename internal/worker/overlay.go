package worker

import (
	"context"
	"fmt"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

type overlayStrategy struct {
	runner ffmpeg.Runner
}

func newOverlayStrategy(runner ffmpeg.Runner) Strategy {
	return &overlayStrategy{runner: runner}
}

func (s *overlayStrategy) Kind() models.Operation {
	return models.OperationOverlay
}

// Execute scales the overlay clip to the requested pixel size and composites
// it onto the main video only inside [start, start+duration]; outside that
// window the main video passes through unmodified.
func (s *overlayStrategy) Execute(ctx context.Context, job *models.EditJob, ws *Workspace, inputs []string, report ProgressFunc) (string, error) {
	req := job.Request.Overlay
	main, overlay := inputs[0], inputs[1]

	filter := fmt.Sprintf(
		"[1:v]scale=%d:%d[ov];[0:v][ov]overlay=%d:%d:enable='between(t,%.3f,%.3f)'",
		req.Width, req.Height, req.X, req.Y, req.Start, req.Start+req.Duration,
	)

	output := ws.Path("overlaid.mp4")
	plan := ffmpeg.Plan{
		Args: []string{
			"-i", main,
			"-i", overlay,
			"-filter_complex", filter,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "23",
			"-c:a", "copy",
			"-movflags", "+faststart",
			"-y", output,
		},
		OutputPath: output,
	}

	report(models.StatusTransforming, progressDownloadEnd+5)
	if err := s.runner.Run(ctx, plan); err != nil {
		return "", fmt.Errorf("video overlay failed: %w", err)
	}
	report(models.StatusTransforming, progressTransformEnd)
	return output, nil
}
