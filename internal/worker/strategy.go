package worker

import (
	"context"
	"math"
	"strings"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

// Stage boundaries for the reported progress percentage. Downloading always
// owns 0-30; merge spends 30-70 normalizing and finishes the concat at 95,
// every other operation transforms straight through to 90; uploading closes
// the gap to 100.
const (
	progressDownloadEnd  = 30
	progressNormalizeEnd = 70
	progressMergeEnd     = 95
	progressTransformEnd = 90
	progressDone         = 100
)

// ProgressFunc lets a strategy report stage/percentage pairs while it runs.
// Reports are monotonic per attempt; the tracker discards regressions.
type ProgressFunc func(status models.JobStatus, progress int)

// Strategy turns one validated request into tool invocations inside the
// workspace and returns the path of the produced artifact.
type Strategy interface {
	Kind() models.Operation
	Execute(ctx context.Context, job *models.EditJob, ws *Workspace, inputs []string, report ProgressFunc) (string, error)
}

// NewStrategyRegistry binds every operation kind to its strategy. The map is
// closed: unknown operations fail at dispatch.
func NewStrategyRegistry(runner ffmpeg.Runner) map[models.Operation]Strategy {
	strategies := []Strategy{
		newMergeStrategy(runner),
		newCaptionStrategy(runner),
		newAddAudioStrategy(runner),
		newWatermarkStrategy(runner),
		newOverlayStrategy(runner),
	}
	registry := make(map[models.Operation]Strategy, len(strategies))
	for _, s := range strategies {
		registry[s.Kind()] = s
	}
	return registry
}

// roundHalfUp maps a fractional pixel value to an exact integer offset.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// escapeDrawText escapes user text for the drawtext filter so quotes and
// filter separators cannot break out of the argument.
func escapeDrawText(text string) string {
	escaped := strings.ReplaceAll(text, "\\", "\\\\\\\\")
	escaped = strings.ReplaceAll(escaped, "'", "'\\''")
	escaped = strings.ReplaceAll(escaped, ":", "\\:")
	return escaped
}
