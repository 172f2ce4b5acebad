package http

import (
	"errors"
	"net/http"

	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/logger"
	"github.com/clipforge/video-edit-api/pkg/utils"
	"github.com/labstack/echo/v4"
)

type jobsHandler struct {
	jobsUC jobs.UseCase
	logger logger.Logger
}

func NewJobsHandler(jobsUC jobs.UseCase, log logger.Logger) jobs.Handlers {
	return &jobsHandler{
		jobsUC: jobsUC,
		logger: log,
	}
}

func (h *jobsHandler) SubmitJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.EditRequest{}
		if err := utils.ReadRequest(c, req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		job, err := h.jobsUC.SubmitJob(c.Request().Context(), req)
		if err != nil {
			h.logger.Errorf("SubmitJob error: %v, request_id: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, map[string]interface{}{
			"job_id":    job.JobID,
			"operation": job.Operation,
			"status":    models.StatusQueued,
		})
	}
}

func (h *jobsHandler) GetJobStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		doc, err := h.jobsUC.GetJobStatus(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrStatusNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, doc)
	}
}
