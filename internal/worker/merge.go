package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

type mergeStrategy struct {
	runner ffmpeg.Runner
}

func newMergeStrategy(runner ffmpeg.Runner) Strategy {
	return &mergeStrategy{runner: runner}
}

func (s *mergeStrategy) Kind() models.Operation {
	return models.OperationMerge
}

// Execute normalizes every input to a common set of stream parameters, then
// concatenates the normalized files in request order with the concat demuxer.
func (s *mergeStrategy) Execute(ctx context.Context, job *models.EditJob, ws *Workspace, inputs []string, report ProgressFunc) (string, error) {
	if len(inputs) == 0 {
		return "", fmt.Errorf("merge requires at least one input")
	}

	report(models.StatusNormalizing, progressDownloadEnd)
	normalized := make([]string, len(inputs))
	span := progressNormalizeEnd - progressDownloadEnd
	for i, input := range inputs {
		info, err := s.runner.Probe(ctx, input)
		if err != nil {
			return "", fmt.Errorf("failed to probe input %d: %w", i, err)
		}
		out := ws.Path(fmt.Sprintf("normalized_%03d.mp4", i))
		if err := s.runner.Run(ctx, normalizePlan(input, out, info.HasAudio)); err != nil {
			return "", fmt.Errorf("failed to normalize input %d: %w", i, err)
		}
		normalized[i] = out
		report(models.StatusNormalizing, progressDownloadEnd+(i+1)*span/len(inputs))
	}

	report(models.StatusTransforming, progressNormalizeEnd)
	listPath, err := s.writeConcatList(ws, normalized)
	if err != nil {
		return "", err
	}

	output := ws.Path("merged.mp4")
	plan := ffmpeg.Plan{
		Args: []string{
			"-f", "concat",
			"-safe", "0",
			"-i", listPath,
			"-c", "copy",
			"-movflags", "+faststart",
			"-y", output,
		},
		OutputPath: output,
	}
	if err := s.runner.Run(ctx, plan); err != nil {
		return "", fmt.Errorf("concat failed: %w", err)
	}
	report(models.StatusTransforming, progressMergeEnd)
	return output, nil
}

func (s *mergeStrategy) writeConcatList(ws *Workspace, segments []string) (string, error) {
	listPath := ws.Path("concat_list.txt")
	file, err := os.Create(listPath)
	if err != nil {
		return "", fmt.Errorf("failed to create concat list: %w", err)
	}
	defer file.Close()

	for _, seg := range segments {
		if _, err := fmt.Fprintf(file, "file '%s'\n", seg); err != nil {
			return "", fmt.Errorf("failed to write concat list: %w", err)
		}
	}
	return listPath, nil
}
