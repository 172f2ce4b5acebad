package worker

import (
	"context"
	"fmt"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

// watermarkMargin is the fixed offset from the frame edge, in pixels.
const watermarkMargin = 16

type watermarkStrategy struct {
	runner ffmpeg.Runner
}

func newWatermarkStrategy(runner ffmpeg.Runner) Strategy {
	return &watermarkStrategy{runner: runner}
}

func (s *watermarkStrategy) Kind() models.Operation {
	return models.OperationWatermark
}

func (s *watermarkStrategy) Execute(ctx context.Context, job *models.EditJob, ws *Workspace, inputs []string, report ProgressFunc) (string, error) {
	req := job.Request.Watermark
	video, image := inputs[0], inputs[1]
	output := ws.Path("watermarked.mp4")

	report(models.StatusTransforming, progressDownloadEnd+5)

	// A fully transparent watermark is a no-op; remux instead of re-encoding
	// so the output stays identical to the input streams.
	if req.Opacity <= 0 {
		plan := ffmpeg.Plan{
			Args:       []string{"-i", video, "-c", "copy", "-movflags", "+faststart", "-y", output},
			OutputPath: output,
		}
		if err := s.runner.Run(ctx, plan); err != nil {
			return "", fmt.Errorf("remux failed: %w", err)
		}
		report(models.StatusTransforming, progressTransformEnd)
		return output, nil
	}

	info, err := s.runner.Probe(ctx, video)
	if err != nil {
		return "", fmt.Errorf("failed to probe video: %w", err)
	}

	scaledWidth := roundHalfUp(req.Scale * float64(info.Width))
	overlayX, overlayY := watermarkOffsets(req.Position)
	filter := fmt.Sprintf(
		"[1:v]scale=%d:-1,format=rgba,colorchannelmixer=aa=%.3f[wm];[0:v][wm]overlay=%s:%s",
		scaledWidth, req.Opacity, overlayX, overlayY,
	)

	plan := ffmpeg.Plan{
		Args: []string{
			"-i", video,
			"-i", image,
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
	if err := s.runner.Run(ctx, plan); err != nil {
		return "", fmt.Errorf("watermark overlay failed: %w", err)
	}
	report(models.StatusTransforming, progressTransformEnd)
	return output, nil
}

// watermarkOffsets resolves a corner anchor to overlay x/y expressions with
// the fixed edge margin. Default corner is top-right.
func watermarkOffsets(position string) (string, string) {
	m := watermarkMargin
	switch position {
	case "top-left":
		return fmt.Sprint(m), fmt.Sprint(m)
	case "bottom-left":
		return fmt.Sprint(m), fmt.Sprintf("main_h-overlay_h-%d", m)
	case "bottom-right":
		return fmt.Sprintf("main_w-overlay_w-%d", m), fmt.Sprintf("main_h-overlay_h-%d", m)
	case "top-right", "":
		return fmt.Sprintf("main_w-overlay_w-%d", m), fmt.Sprint(m)
	}
	return fmt.Sprintf("main_w-overlay_w-%d", m), fmt.Sprint(m)
}
