package http

import (
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/labstack/echo/v4"
)

func MapJobsRoutes(jobsGroup *echo.Group, h jobs.Handlers) {
	jobsGroup.POST("", h.SubmitJob())
	jobsGroup.GET("/:job_id", h.GetJobStatus())
}
