package middleware

import (
	"time"

	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/pkg/logger"
	"github.com/clipforge/video-edit-api/pkg/utils"
	"github.com/labstack/echo/v4"
)

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, origins: origins, logger: logger}
}

// RequestLoggerMiddleware logs method, uri, status and latency per request.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		req := c.Request()
		res := c.Response()
		mw.logger.Infof("method: %s, uri: %s, status: %d, ip: %s, request_id: %s, time: %s",
			req.Method, req.RequestURI, res.Status, utils.GetIPAddress(c), utils.GetRequestID(c), time.Since(start))
		return err
	}
}
