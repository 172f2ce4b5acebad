package jobs

import (
	"context"

	"github.com/clipforge/video-edit-api/internal/models"
)

// UseCase is the job intake surface: validate, persist the initial status,
// enqueue.
type UseCase interface {
	SubmitJob(ctx context.Context, req *models.EditRequest) (*models.EditJob, error)
	GetJobStatus(ctx context.Context, jobID string) (*models.StatusDocument, error)
}
