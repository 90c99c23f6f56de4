package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/practiceboard-backend/internal/http/handlers"
	httpMW "github.com/yungbote/practiceboard-backend/internal/http/middleware"
	"github.com/yungbote/practiceboard-backend/internal/observability"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	CalendarHandler   *httpH.CalendarHandler
	SchedulingHandler *httpH.SchedulingHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Calendar events
		if cfg.CalendarHandler != nil {
			protected.POST("/calendar/events", cfg.CalendarHandler.CreateEvent)
			protected.GET("/calendar/events", cfg.CalendarHandler.SearchEvents)
			protected.GET("/calendar/events/range", cfg.CalendarHandler.EventsInRange)
			protected.GET("/calendar/events/:id", cfg.CalendarHandler.GetEvent)
			protected.PATCH("/calendar/events/:id", cfg.CalendarHandler.UpdateEvent)
			protected.DELETE("/calendar/events/:id", cfg.CalendarHandler.DeleteEvent)
			protected.POST("/calendar/events/:id/attendees", cfg.CalendarHandler.AddAttendee)
			protected.DELETE("/calendar/events/:id/attendees/:contact_id", cfg.CalendarHandler.RemoveAttendee)
		}

		// Scheduling
		if cfg.SchedulingHandler != nil {
			protected.GET("/calendar/events/:id/prep", cfg.SchedulingHandler.SessionPrep)
			protected.GET("/calendar/availability", cfg.SchedulingHandler.FindAvailability)
			protected.GET("/calendar/feed.ics", cfg.SchedulingHandler.Feed)
		}
	}

	return r
}
