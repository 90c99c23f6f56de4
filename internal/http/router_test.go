package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/practiceboard-backend/internal/http/handlers"
	httpMW "github.com/yungbote/practiceboard-backend/internal/http/middleware"
	"github.com/yungbote/practiceboard-backend/internal/observability"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	auth := services.NewAuthService(log, "router-secret")
	return NewRouter(RouterConfig{
		Log:               log,
		Metrics:           observability.NewMetrics(),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, auth),
		CalendarHandler:   httpH.NewCalendarHandler(log, nil, nil),
		SchedulingHandler: httpH.NewSchedulingHandler(log, nil, nil, nil),
		HealthHandler:     httpH.NewHealthHandler(),
	})
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthcheck", nil))
	if rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}

	for _, path := range []string{
		"/api/calendar/events",
		"/api/calendar/events/range",
		"/api/calendar/availability",
		"/api/calendar/feed.ics",
	} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, path, nil))
		if rec.Code != nethttp.StatusUnauthorized {
			t.Fatalf("%s: want 401 got %d", path, rec.Code)
		}
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), "practiceboard_api_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
