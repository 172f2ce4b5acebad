package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/labstack/echo/v4"
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

type fakeUseCase struct {
	submitted *models.EditRequest
	job       *models.EditJob
	submitErr error
	doc       *models.StatusDocument
	statusErr error
}

func (u *fakeUseCase) SubmitJob(_ context.Context, req *models.EditRequest) (*models.EditJob, error) {
	u.submitted = req
	if u.submitErr != nil {
		return nil, u.submitErr
	}
	return u.job, nil
}

func (u *fakeUseCase) GetJobStatus(_ context.Context, jobID string) (*models.StatusDocument, error) {
	if u.statusErr != nil {
		return nil, u.statusErr
	}
	return u.doc, nil
}

func TestSubmitJobHandler(t *testing.T) {
	t.Parallel()

	uc := &fakeUseCase{job: &models.EditJob{
		JobID:     "11111111-1111-1111-1111-111111111111",
		Operation: models.OperationCaption,
		CreatedAt: time.Now().UTC(),
	}}
	h := NewJobsHandler(uc, nopLogger{})

	body := `{
		"operation": "caption",
		"caption": {
			"input": {"url": "https://cdn.example.com/clip.mp4"},
			"text": "Hello",
			"position": {"x": 50, "y": 90}
		}
	}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitJob()(c))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uc.job.JobID, resp["job_id"])
	require.Equal(t, "caption", resp["operation"])
	require.Equal(t, "queued", resp["status"])

	require.NotNil(t, uc.submitted)
	require.Equal(t, models.OperationCaption, uc.submitted.Operation)
	require.NotNil(t, uc.submitted.Caption)
	require.Equal(t, "Hello", uc.submitted.Caption.Text)
}

func TestSubmitJobHandlerRejectsBadBody(t *testing.T) {
	t.Parallel()

	h := NewJobsHandler(&fakeUseCase{}, nopLogger{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitJob()(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobStatusHandler(t *testing.T) {
	t.Parallel()

	doc := models.NewStatusDocument("22222222-2222-2222-2222-222222222222")
	doc.Status = models.StatusTransforming
	doc.Progress = 55
	uc := &fakeUseCase{doc: doc}
	h := NewJobsHandler(uc, nopLogger{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/jobs/:job_id")
	c.SetParamNames("job_id")
	c.SetParamValues(doc.JobID)

	require.NoError(t, h.GetJobStatus()(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.StatusDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, doc.JobID, got.JobID)
	require.Equal(t, models.StatusTransforming, got.Status)
	require.Equal(t, 55, got.Progress)
}

func TestGetJobStatusHandlerNotFound(t *testing.T) {
	t.Parallel()

	h := NewJobsHandler(&fakeUseCase{statusErr: jobs.ErrStatusNotFound}, nopLogger{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("job_id")
	c.SetParamValues("33333333-3333-3333-3333-333333333333")

	require.NoError(t, h.GetJobStatus()(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
