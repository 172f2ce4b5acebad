package server

import (
	"net/http"
	"os"

	jobsHttp "github.com/clipforge/video-edit-api/internal/jobs/delivery/http"
	jobsRepository "github.com/clipforge/video-edit-api/internal/jobs/repository"
	jobsUsecase "github.com/clipforge/video-edit-api/internal/jobs/usecase"
	"github.com/clipforge/video-edit-api/internal/middleware"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
	"github.com/clipforge/video-edit-api/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	statusRepo := jobsRepository.NewStatusRepository(s.s3Client, s.redisClient, s.cfg)
	queueRepo := jobsRepository.NewSqsRepository(s.sqsClient, &s.cfg.Queue)

	jobsUC := jobsUsecase.NewJobsUseCase(s.cfg, statusRepo, queueRepo, s.logger)
	jobsHandlers := jobsHttp.NewJobsHandler(jobsUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	jobsGroup := v1.Group("/jobs")

	jobsHttp.MapJobsRoutes(jobsGroup, jobsHandlers)
	health.GET("", s.healthHandler())
	return nil
}

// healthHandler reports whether the service can actually take work: ffmpeg
// and ffprobe must be resolvable and the scratch directory writable.
func (s *Server) healthHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))

		checks := map[string]string{
			"ffmpeg":  "ok",
			"ffprobe": "ok",
			"scratch": "ok",
		}
		healthy := true

		if !ffmpeg.Available(s.cfg.Worker.FFmpegPath) {
			checks["ffmpeg"] = "not found"
			healthy = false
		}
		ffprobePath := s.cfg.Worker.FFprobePath
		if ffprobePath == "" {
			ffprobePath = "ffprobe"
		}
		if !ffmpeg.Available(ffprobePath) {
			checks["ffprobe"] = "not found"
			healthy = false
		}
		if err := os.MkdirAll(s.cfg.Worker.ScratchDir, 0o755); err != nil {
			checks["scratch"] = err.Error()
			healthy = false
		}

		status := http.StatusOK
		result := "OK"
		if !healthy {
			status = http.StatusServiceUnavailable
			result = "DEGRADED"
		}
		return c.JSON(status, map[string]interface{}{
			"status": result,
			"checks": checks,
		})
	}
}
