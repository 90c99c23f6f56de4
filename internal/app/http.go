package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/practiceboard-backend/internal/http"
	httpH "github.com/yungbote/practiceboard-backend/internal/http/handlers"
	httpMW "github.com/yungbote/practiceboard-backend/internal/http/middleware"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

const serviceName = "practiceboard"

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Calendar   *httpH.CalendarHandler
	Scheduling *httpH.SchedulingHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Calendar:   httpH.NewCalendarHandler(log, services.CalendarEvents, services.Attendees),
		Scheduling: httpH.NewSchedulingHandler(log, services.Availability, services.SessionPrep, services.CalendarFeed),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, clients Clients, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           clients.Metrics,
		AuthMiddleware:    middleware.Auth,
		CalendarHandler:   handlers.Calendar,
		SchedulingHandler: handlers.Scheduling,
		HealthHandler:     handlers.Health,
	})
}
