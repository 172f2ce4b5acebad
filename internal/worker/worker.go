package worker

import (
	"context"
	"time"

	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/pkg/logger"
	"github.com/clipforge/video-edit-api/pkg/utils"
)

const idleBackoff = 5 * time.Second

// Worker is the queue dispatcher: it receives one delivery at a time, guards
// against poisoned messages via the receive count, hands the job to the
// executor and acknowledges the message only once a terminal status exists.
type Worker struct {
	cfg       *config.Config
	queueRepo jobs.QueueRepository
	executor  *Executor
	logger    logger.Logger
}

func NewWorker(cfg *config.Config, queueRepo jobs.QueueRepository, executor *Executor, log logger.Logger) *Worker {
	return &Worker{
		cfg:       cfg,
		queueRepo: queueRepo,
		executor:  executor,
		logger:    log,
	}
}

func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return
		default:
		}

		if canAccept, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !canAccept {
			w.logger.Infof("CPU usage %.2f%% too high, waiting", usage)
			sleepCtx(ctx, idleBackoff)
			continue
		}

		w.processOne(ctx)
	}
}

func (w *Worker) processOne(ctx context.Context) {
	delivery, err := w.queueRepo.ReceiveJob(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Errorf("failed to receive job: %v", err)
		sleepCtx(ctx, idleBackoff)
		return
	}
	if delivery == nil {
		return
	}

	job := delivery.Job
	if delivery.ReceiveCount > w.cfg.Queue.MaxReceiveCount {
		w.logger.Warnf("job %s exceeded max receive count (%d), diverting to dead-letter",
			job.JobID, w.cfg.Queue.MaxReceiveCount)
		if err := w.queueRepo.ForwardToDeadLetter(ctx, delivery); err != nil {
			// Leave the message in place; the next receive retries the divert.
			w.logger.Errorf("failed to forward job %s to dead-letter: %v", job.JobID, err)
			return
		}
		w.ack(ctx, delivery.ReceiptHandle, job.JobID)
		return
	}

	w.logger.Infof("processing job %s (operation=%s, attempt=%d)", job.JobID, job.Operation, delivery.ReceiveCount)
	ack, err := w.executor.Execute(ctx, job)
	if err != nil {
		w.logger.Errorf("job %s attempt ended with error: %v", job.JobID, err)
	}
	if !ack {
		// No terminal status was written; the visibility timeout will hand
		// the message to another attempt.
		return
	}
	w.ack(ctx, delivery.ReceiptHandle, job.JobID)
}

func (w *Worker) ack(ctx context.Context, receiptHandle, jobID string) {
	if err := w.queueRepo.DeleteJob(ctx, receiptHandle); err != nil {
		w.logger.Errorf("failed to delete message for job %s: %v", jobID, err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
