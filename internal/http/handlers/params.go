package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/http/response"
	"github.com/yungbote/practiceboard-backend/internal/platform/ctxutil"
)

// requireOwner writes a 401 and returns false when the request has no owner.
func requireOwner(c *gin.Context) (uuid.UUID, bool) {
	ownerID := ctxutil.OwnerID(c.Request.Context())
	if ownerID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return ownerID, true
}

func uuidParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		if err == nil {
			err = fmt.Errorf("%s is required", name)
		}
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// timeQuery parses an optional RFC3339 query parameter. Query decoding turns an
// unescaped "+" offset into a space, which is put back before parsing.
func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	raw = strings.ReplaceAll(raw, " ", "+")
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339: %w", name, err)
	}
	return &t, nil
}

func requiredTimeQuery(c *gin.Context, name string) (time.Time, error) {
	t, err := timeQuery(c, name)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	return *t, nil
}

// intQuery parses an optional integer query parameter; ok is false when absent.
func intQuery(c *gin.Context, name string) (v int, ok bool, err error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer", name)
	}
	return v, true, nil
}
