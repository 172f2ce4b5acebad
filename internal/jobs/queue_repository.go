package jobs

import (
	"context"

	"github.com/clipforge/video-edit-api/internal/models"
)

// QueueRepository is the durable queue boundary. Delivery is at-least-once:
// a received message stays invisible for the configured visibility timeout
// and reappears unless deleted.
type QueueRepository interface {
	EnqueueJob(ctx context.Context, job *models.EditJob) error
	// ReceiveJob long-polls for at most one message; nil delivery means the
	// queue was empty.
	ReceiveJob(ctx context.Context) (*models.JobDelivery, error)
	DeleteJob(ctx context.Context, receiptHandle string) error
	// ForwardToDeadLetter diverts a poisoned delivery out of the normal
	// processing path.
	ForwardToDeadLetter(ctx context.Context, delivery *models.JobDelivery) error
}
