package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/logger"
	"github.com/clipforge/video-edit-api/pkg/utils"
	"github.com/google/uuid"
)

type jobsUC struct {
	cfg        *config.Config
	statusRepo jobs.StatusRepository
	queueRepo  jobs.QueueRepository
	logger     logger.Logger
}

func NewJobsUseCase(
	cfg *config.Config,
	statusRepo jobs.StatusRepository,
	queueRepo jobs.QueueRepository,
	log logger.Logger,
) jobs.UseCase {
	return &jobsUC{
		cfg:        cfg,
		statusRepo: statusRepo,
		queueRepo:  queueRepo,
		logger:     log,
	}
}

// SubmitJob validates the request, persists the initial status document and
// enqueues the job message, in that order: a consumer must never receive a
// job whose status document does not exist yet.
func (u *jobsUC) SubmitJob(ctx context.Context, req *models.EditRequest) (*models.EditJob, error) {
	if req == nil {
		return nil, fmt.Errorf("invalid input: request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(ctx, req); err != nil {
		return nil, err
	}

	job := &models.EditJob{
		JobID:     uuid.New().String(),
		Operation: req.Operation,
		Request:   *req,
		CreatedAt: time.Now().UTC(),
	}

	doc := models.NewStatusDocument(job.JobID)
	doc.SetMeta(models.MetaInputCount, len(req.Inputs()))
	if err := u.statusRepo.PutStatus(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist initial status: %w", err)
	}

	if err := u.queueRepo.EnqueueJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue job %s: %w", job.JobID, err)
	}

	u.logger.Infof("job %s accepted, operation=%s inputs=%d", job.JobID, job.Operation, len(req.Inputs()))
	return job, nil
}

func (u *jobsUC) GetJobStatus(ctx context.Context, jobID string) (*models.StatusDocument, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, fmt.Errorf("invalid job id %q", jobID)
	}
	return u.statusRepo.GetStatus(ctx, jobID)
}
