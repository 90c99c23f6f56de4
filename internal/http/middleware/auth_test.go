package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/platform/ctxutil"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

func authRouter(t *testing.T, auth services.AuthService) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	seen := new(uuid.UUID)
	r := gin.New()
	r.Use(NewAuthMiddleware(log, auth).RequireAuth())
	r.GET("/api/calendar/feed.ics", func(c *gin.Context) {
		*seen = ctxutil.OwnerID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, seen
}

func TestRequireAuth(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	auth := services.NewAuthService(log, "test-secret")
	owner := uuid.New()
	token, err := auth.IssueToken(owner, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	r, seen := authRouter(t, auth)

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: http.StatusOK},
		{name: "query token", query: "?token=" + token, want: http.StatusOK},
	}
	for _, tc := range cases {
		*seen = uuid.Nil
		req := httptest.NewRequest(http.MethodGet, "/api/calendar/feed.ics"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: want=%d got=%d body=%s", tc.name, tc.want, rec.Code, rec.Body.String())
		}
		if tc.want == http.StatusOK && *seen != owner {
			t.Fatalf("%s: owner not attached, got %s", tc.name, *seen)
		}
	}
}
