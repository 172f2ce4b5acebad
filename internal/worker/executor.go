package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/logger"
)

// Executor drives one job attempt through the pipeline stages, persisting a
// status transition after each. Any stage error is caught here and turned
// into a terminal failed document; retry policy lives entirely at the queue.
type Executor struct {
	cfg        *config.Config
	statusRepo jobs.StatusRepository
	store      *MediaStore
	scratch    *ScratchManager
	strategies map[models.Operation]Strategy
	logger     logger.Logger
}

func NewExecutor(
	cfg *config.Config,
	statusRepo jobs.StatusRepository,
	store *MediaStore,
	scratch *ScratchManager,
	strategies map[models.Operation]Strategy,
	log logger.Logger,
) *Executor {
	return &Executor{
		cfg:        cfg,
		statusRepo: statusRepo,
		store:      store,
		scratch:    scratch,
		strategies: strategies,
		logger:     log,
	}
}

// Execute runs one attempt for the job. The returned bool tells the
// dispatcher whether the delivery may be acknowledged: true once a terminal
// status is persisted (or the job already was terminal), false when the
// attempt aborted before reaching a terminal write, in which case the
// visibility timeout will put the message back in flight.
func (e *Executor) Execute(ctx context.Context, job *models.EditJob) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Worker.Timeout())
	defer cancel()

	doc, err := e.statusRepo.GetStatus(ctx, job.JobID)
	if err != nil && !errors.Is(err, jobs.ErrStatusNotFound) {
		return false, fmt.Errorf("failed to read status for job %s: %w", job.JobID, err)
	}
	if doc != nil && doc.Status.Terminal() {
		// Duplicate delivery of a finished job; acknowledge without work.
		e.logger.Infof("job %s already %s, skipping duplicate delivery", job.JobID, doc.Status)
		return true, nil
	}
	if doc == nil {
		doc = models.NewStatusDocument(job.JobID)
	}

	tracker := newStatusTracker(e.statusRepo, doc, e.logger)
	if err := tracker.transition(ctx, models.StatusProcessing, doc.Progress, nil); err != nil {
		// Could not even mark the job as taken; leave the message for
		// redelivery rather than working invisibly.
		return false, fmt.Errorf("failed to mark job %s processing: %w", job.JobID, err)
	}

	// The message body is untrusted input: re-validate before any stage may
	// index into the payload.
	if err := job.Request.Validate(); err != nil {
		return e.fail(ctx, tracker, job, fmt.Errorf("invalid job payload: %w", err))
	}
	if job.Operation != job.Request.Operation {
		return e.fail(ctx, tracker, job, fmt.Errorf("job operation %q does not match payload operation %q",
			job.Operation, job.Request.Operation))
	}

	ws, err := e.scratch.Acquire(job.JobID)
	if err != nil {
		return e.fail(ctx, tracker, job, fmt.Errorf("failed to acquire workspace: %w", err))
	}
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			e.logger.Warnf("job %s: workspace cleanup failed: %v", job.JobID, cleanupErr)
		}
	}()

	inputs := job.Request.Inputs()
	localInputs := make([]string, len(inputs))
	tracker.report(ctx)(models.StatusDownloading, 0)
	for i, ref := range inputs {
		dest := ws.InputPath(i, refExt(ref))
		if err := e.store.Fetch(ctx, ref, dest); err != nil {
			tracker.setMeta(models.MetaFailedInput, ref.String())
			return e.fail(ctx, tracker, job, err)
		}
		localInputs[i] = dest
		tracker.report(ctx)(models.StatusDownloading, (i+1)*progressDownloadEnd/len(inputs))
	}

	strategy, ok := e.strategies[job.Operation]
	if !ok {
		return e.fail(ctx, tracker, job, fmt.Errorf("no strategy for operation %q", job.Operation))
	}

	artifact, err := strategy.Execute(ctx, job, ws, localInputs, tracker.report(ctx))
	if err != nil {
		return e.fail(ctx, tracker, job, err)
	}

	tracker.report(ctx)(models.StatusUploading, progressMergeEnd)
	outputKey := e.store.OutputKey(job.JobID)
	if err := e.store.Upload(ctx, artifact, outputKey); err != nil {
		return e.fail(ctx, tracker, job, err)
	}
	downloadURL, expiresAt, err := e.store.PresignDownload(ctx, outputKey)
	if err != nil {
		// The uploaded artifact will never be handed out; don't leave it
		// orphaned in the output bucket.
		if rmErr := e.store.Discard(ctx, outputKey); rmErr != nil {
			e.logger.Warnf("job %s: failed to discard orphaned artifact %s: %v", job.JobID, outputKey, rmErr)
		}
		return e.fail(ctx, tracker, job, err)
	}

	meta := map[string]interface{}{
		models.MetaOutputBucket: e.cfg.S3.OutputBucket,
		models.MetaOutputKey:    outputKey,
		models.MetaDownloadURL:  downloadURL,
		models.MetaURLExpiresAt: expiresAt,
	}
	if err := tracker.transition(ctx, models.StatusCompleted, progressDone, meta); err != nil {
		return false, fmt.Errorf("failed to finalize job %s: %w", job.JobID, err)
	}
	e.logger.Infof("job %s completed, output %s", job.JobID, outputKey)
	return true, nil
}

// fail converts any stage error into a terminal failed document. The message
// is still acknowledged: redelivering a deterministic failure would only
// reproduce it. Only a failure to persist the terminal state itself leaves
// the delivery unacknowledged.
func (e *Executor) fail(ctx context.Context, tracker *statusTracker, job *models.EditJob, cause error) (bool, error) {
	e.logger.Errorf("job %s failed: %v", job.JobID, cause)
	tracker.setMeta(models.MetaError, cause.Error())
	if err := tracker.transition(ctx, models.StatusFailed, tracker.doc.Progress, nil); err != nil {
		return false, fmt.Errorf("failed to persist failure for job %s (cause: %v): %w", job.JobID, cause, err)
	}
	return true, cause
}

// statusTracker serializes status document updates for one attempt and
// enforces the forward-only status and non-decreasing progress invariants.
type statusTracker struct {
	repo   jobs.StatusRepository
	doc    *models.StatusDocument
	logger logger.Logger
}

func newStatusTracker(repo jobs.StatusRepository, doc *models.StatusDocument, log logger.Logger) *statusTracker {
	return &statusTracker{repo: repo, doc: doc, logger: log}
}

func (t *statusTracker) setMeta(key string, value interface{}) {
	t.doc.SetMeta(key, value)
}

// transition persists a status change. Regressions are clamped rather than
// written: a stage may never report a lower progress than one it already
// reported this attempt.
func (t *statusTracker) transition(ctx context.Context, status models.JobStatus, progress int, meta map[string]interface{}) error {
	if !t.doc.Status.CanTransition(status) {
		return fmt.Errorf("illegal status transition %s -> %s", t.doc.Status, status)
	}
	if progress < t.doc.Progress {
		progress = t.doc.Progress
	}
	t.doc.Status = status
	t.doc.Progress = progress
	for k, v := range meta {
		t.doc.SetMeta(k, v)
	}
	return t.repo.PutStatus(ctx, t.doc)
}

// report adapts the tracker into the strategies' progress callback.
// Mid-pipeline write failures are logged and swallowed; the job keeps
// running and the terminal write remains the one that must succeed.
func (t *statusTracker) report(ctx context.Context) ProgressFunc {
	return func(status models.JobStatus, progress int) {
		if err := t.transition(ctx, status, progress, nil); err != nil {
			t.logger.Warnf("job %s: progress update dropped: %v", t.doc.JobID, err)
		}
	}
}
