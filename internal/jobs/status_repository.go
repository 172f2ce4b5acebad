package jobs

import (
	"context"
	"errors"

	"github.com/clipforge/video-edit-api/internal/models"
)

var ErrStatusNotFound = errors.New("status document not found")

// StatusRepository persists one status document per job. PutStatus must be
// atomic per key; the document is overwritten whole on each transition.
type StatusRepository interface {
	GetStatus(ctx context.Context, jobID string) (*models.StatusDocument, error)
	PutStatus(ctx context.Context, doc *models.StatusDocument) error
}
