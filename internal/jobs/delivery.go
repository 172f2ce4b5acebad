package jobs

import "github.com/labstack/echo/v4"

type Handlers interface {
	SubmitJob() echo.HandlerFunc
	GetJobStatus() echo.HandlerFunc
}
