package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) InitLogger()                              {}
func (nopLogger) Debug(args ...interface{})                {}
func (nopLogger) Debugf(template string, a ...interface{}) {}
func (nopLogger) Info(args ...interface{})                 {}
func (nopLogger) Infof(template string, a ...interface{})  {}
func (nopLogger) Warn(args ...interface{})                 {}
func (nopLogger) Warnf(template string, a ...interface{})  {}
func (nopLogger) Error(args ...interface{})                {}
func (nopLogger) Errorf(template string, a ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})                {}
func (nopLogger) Fatalf(template string, a ...interface{}) {}

type fakeStatusRepo struct {
	docs   map[string]*models.StatusDocument
	calls  *[]string
	putErr error
}

func (r *fakeStatusRepo) GetStatus(_ context.Context, jobID string) (*models.StatusDocument, error) {
	doc, ok := r.docs[jobID]
	if !ok {
		return nil, jobs.ErrStatusNotFound
	}
	return doc, nil
}

func (r *fakeStatusRepo) PutStatus(_ context.Context, doc *models.StatusDocument) error {
	if r.putErr != nil {
		return r.putErr
	}
	*r.calls = append(*r.calls, "put_status")
	r.docs[doc.JobID] = doc
	return nil
}

type fakeQueueRepo struct {
	enqueued   []*models.EditJob
	calls      *[]string
	enqueueErr error
}

func (q *fakeQueueRepo) EnqueueJob(_ context.Context, job *models.EditJob) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	*q.calls = append(*q.calls, "enqueue")
	q.enqueued = append(q.enqueued, job)
	return nil
}

func (q *fakeQueueRepo) ReceiveJob(_ context.Context) (*models.JobDelivery, error) { return nil, nil }
func (q *fakeQueueRepo) DeleteJob(_ context.Context, _ string) error               { return nil }
func (q *fakeQueueRepo) ForwardToDeadLetter(_ context.Context, _ *models.JobDelivery) error {
	return nil
}

func newFixture() (jobs.UseCase, *fakeStatusRepo, *fakeQueueRepo) {
	calls := []string{}
	statusRepo := &fakeStatusRepo{docs: map[string]*models.StatusDocument{}, calls: &calls}
	queueRepo := &fakeQueueRepo{calls: &calls}
	uc := NewJobsUseCase(&config.Config{}, statusRepo, queueRepo, nopLogger{})
	return uc, statusRepo, queueRepo
}

func validMergeRequest() *models.EditRequest {
	return &models.EditRequest{
		Operation: models.OperationMerge,
		Merge: &models.MergeRequest{Inputs: []models.MediaReference{
			{URL: "https://cdn.example.com/a.mp4"},
			{Bucket: "media", Key: "in/b.mp4"},
		}},
	}
}

func TestSubmitJob(t *testing.T) {
	t.Parallel()

	uc, statusRepo, queueRepo := newFixture()

	job, err := uc.SubmitJob(context.Background(), validMergeRequest())
	require.NoError(t, err)
	require.NotNil(t, job)

	_, err = uuid.Parse(job.JobID)
	require.NoError(t, err, "job id must be a uuid")
	require.Equal(t, models.OperationMerge, job.Operation)

	require.Len(t, queueRepo.enqueued, 1)
	require.Equal(t, job.JobID, queueRepo.enqueued[0].JobID)

	doc, err := statusRepo.GetStatus(context.Background(), job.JobID)
	require.NoError(t, err)
	require.Equal(t, models.StatusQueued, doc.Status)
	require.Zero(t, doc.Progress)
	require.EqualValues(t, 2, doc.Metadata[models.MetaInputCount])

	// the status document must exist before the message does
	require.Equal(t, []string{"put_status", "enqueue"}, *statusRepo.calls)
}

func TestSubmitJobValidation(t *testing.T) {
	t.Parallel()

	uc, statusRepo, queueRepo := newFixture()

	cases := []struct {
		name string
		req  *models.EditRequest
	}{
		{name: "nil request", req: nil},
		{name: "unknown operation", req: &models.EditRequest{Operation: "transcode"}},
		{name: "missing payload", req: &models.EditRequest{Operation: models.OperationMerge}},
		{
			name: "empty merge inputs",
			req: &models.EditRequest{
				Operation: models.OperationMerge,
				Merge:     &models.MergeRequest{Inputs: []models.MediaReference{}},
			},
		},
		{
			name: "ambiguous media reference",
			req: &models.EditRequest{
				Operation: models.OperationMerge,
				Merge: &models.MergeRequest{Inputs: []models.MediaReference{
					{URL: "https://x/a.mp4", Bucket: "media", Key: "a.mp4"},
				}},
			},
		},
		{
			name: "watermark opacity out of range",
			req: &models.EditRequest{
				Operation: models.OperationWatermark,
				Watermark: &models.WatermarkRequest{
					Input:   models.MediaReference{URL: "https://x/v.mp4"},
					Image:   models.MediaReference{URL: "https://x/l.png"},
					Opacity: 1.5,
					Scale:   0.2,
				},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.SubmitJob(context.Background(), tc.req)
			require.Error(t, err)
		})
	}

	require.Empty(t, queueRepo.enqueued, "rejected requests must not be enqueued")
	require.Empty(t, statusRepo.docs, "rejected requests must not leave status documents")
}

func TestSubmitJobEnqueueFailure(t *testing.T) {
	t.Parallel()

	uc, _, queueRepo := newFixture()
	queueRepo.enqueueErr = errors.New("sqs unavailable")

	_, err := uc.SubmitJob(context.Background(), validMergeRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to enqueue")
}

func TestSubmitJobStatusWriteFailure(t *testing.T) {
	t.Parallel()

	uc, statusRepo, queueRepo := newFixture()
	statusRepo.putErr = errors.New("s3 unavailable")

	_, err := uc.SubmitJob(context.Background(), validMergeRequest())
	require.Error(t, err)
	require.Empty(t, queueRepo.enqueued, "no message without a status document")
}

func TestGetJobStatus(t *testing.T) {
	t.Parallel()

	uc, statusRepo, _ := newFixture()

	jobID := uuid.New().String()
	doc := models.NewStatusDocument(jobID)
	statusRepo.docs[jobID] = doc

	got, err := uc.GetJobStatus(context.Background(), jobID)
	require.NoError(t, err)
	require.Equal(t, jobID, got.JobID)

	_, err = uc.GetJobStatus(context.Background(), "not-a-uuid")
	require.Error(t, err)

	_, err = uc.GetJobStatus(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, jobs.ErrStatusNotFound)
}
