package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/http/response"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

const (
	feedDefaultLookback  = 30 * 24 * time.Hour
	feedDefaultLookahead = 180 * 24 * time.Hour
)

type SchedulingHandler struct {
	log          *logger.Logger
	availability services.AvailabilityService
	prep         services.SessionPrepService
	feed         services.CalendarFeedService
	now          func() time.Time
}

func NewSchedulingHandler(
	log *logger.Logger,
	availability services.AvailabilityService,
	prep services.SessionPrepService,
	feed services.CalendarFeedService,
) *SchedulingHandler {
	return &SchedulingHandler{
		log:          log.With("handler", "SchedulingHandler"),
		availability: availability,
		prep:         prep,
		feed:         feed,
		now:          time.Now,
	}
}

// GET /api/calendar/availability
func (h *SchedulingHandler) FindAvailability(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	start, err := requiredTimeQuery(c, "start")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	end, err := requiredTimeQuery(c, "end")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	duration, set, err := intQuery(c, "duration_minutes")
	if err == nil && !set {
		err = errors.New("duration_minutes is required")
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	startHour, startSet, err := intQuery(c, "start_hour")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	endHour, endSet, err := intQuery(c, "end_hour")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	if startSet != endSet {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", errors.New("start_hour and end_hour must be given together"))
		return
	}
	var wh *types.WorkingHours
	if startSet {
		wh = &types.WorkingHours{StartHour: startHour, EndHour: endHour}
	}

	slots, err := h.availability.FindAvailability(dbctx.Context{Ctx: c.Request.Context()}, ownerID, start, end, duration, wh)
	if err != nil {
		h.log.Warn("FindAvailability failed", "error", err, "owner_id", ownerID)
		response.RespondServiceError(c, err, "find_availability_failed")
		return
	}
	response.RespondOK(c, gin.H{"slots": slots})
}

// GET /api/calendar/events/:id/prep
func (h *SchedulingHandler) SessionPrep(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	bundle, err := h.prep.GetSessionPrep(dbctx.Context{Ctx: c.Request.Context()}, ownerID, eventID)
	if err != nil {
		h.log.Warn("GetSessionPrep failed", "error", err, "event_id", eventID)
		response.RespondServiceError(c, err, "session_prep_failed")
		return
	}
	if bundle == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("event not found"))
		return
	}
	response.RespondOK(c, gin.H{"prep": bundle})
}

// GET /api/calendar/feed.ics
func (h *SchedulingHandler) Feed(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	start, err := timeQuery(c, "start")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	end, err := timeQuery(c, "end")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	now := h.now().UTC()
	from, to := now.Add(-feedDefaultLookback), now.Add(feedDefaultLookahead)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	body, err := h.feed.ExportICS(dbctx.Context{Ctx: c.Request.Context()}, ownerID, from, to)
	if err != nil {
		h.log.Warn("ExportICS failed", "error", err, "owner_id", ownerID)
		response.RespondServiceError(c, err, "export_feed_failed")
		return
	}
	c.Header("Content-Disposition", `inline; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
