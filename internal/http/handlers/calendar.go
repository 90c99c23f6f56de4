package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/http/response"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

type CalendarHandler struct {
	log       *logger.Logger
	events    services.CalendarEventService
	attendees services.AttendeeService
}

func NewCalendarHandler(log *logger.Logger, events services.CalendarEventService, attendees services.AttendeeService) *CalendarHandler {
	return &CalendarHandler{
		log:       log.With("handler", "CalendarHandler"),
		events:    events,
		attendees: attendees,
	}
}

// POST /api/calendar/events
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req services.CalendarEventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ev, err := h.events.CreateEvent(dbctx.Context{Ctx: c.Request.Context()}, ownerID, req)
	if err != nil {
		h.log.Warn("CreateEvent failed", "error", err, "owner_id", ownerID)
		response.RespondServiceError(c, err, "create_event_failed")
		return
	}
	response.RespondCreated(c, gin.H{"event": ev})
}

// GET /api/calendar/events
func (h *CalendarHandler) SearchEvents(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	q := services.CalendarSearch{EventType: strings.TrimSpace(c.Query("event_type"))}
	var err error
	if q.StartDate, err = timeQuery(c, "start"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	if q.EndDate, err = timeQuery(c, "end"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	if raw := strings.TrimSpace(c.Query("contact_id")); raw != "" {
		id, perr := uuid.Parse(raw)
		if perr != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", perr)
			return
		}
		q.ContactID = &id
	}
	limit, _, err := intQuery(c, "limit")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	q.Limit = limit

	evs, err := h.events.SearchEvents(dbctx.Context{Ctx: c.Request.Context()}, ownerID, q)
	if err != nil {
		h.log.Warn("SearchEvents failed", "error", err, "owner_id", ownerID)
		response.RespondServiceError(c, err, "search_events_failed")
		return
	}
	response.RespondOK(c, gin.H{"events": evs})
}

// GET /api/calendar/events/range
func (h *CalendarHandler) EventsInRange(c *gin.Context) {
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
	evs, err := h.events.GetEventsInRange(dbctx.Context{Ctx: c.Request.Context()}, ownerID, start, end)
	if err != nil {
		h.log.Warn("GetEventsInRange failed", "error", err, "owner_id", ownerID)
		response.RespondServiceError(c, err, "events_in_range_failed")
		return
	}
	response.RespondOK(c, gin.H{"events": evs})
}

// GET /api/calendar/events/:id
func (h *CalendarHandler) GetEvent(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	ev, err := h.events.GetEventByID(dbctx.Context{Ctx: c.Request.Context()}, ownerID, eventID)
	if err != nil {
		h.log.Warn("GetEventByID failed", "error", err, "event_id", eventID)
		response.RespondServiceError(c, err, "get_event_failed")
		return
	}
	if ev == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("event not found"))
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// PATCH /api/calendar/events/:id
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	var patch services.CalendarEventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		if !errors.Is(err, io.EOF) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		patch = services.CalendarEventPatch{}
	}
	ev, err := h.events.UpdateEvent(dbctx.Context{Ctx: c.Request.Context()}, ownerID, eventID, patch)
	if err != nil {
		h.log.Warn("UpdateEvent failed", "error", err, "event_id", eventID)
		response.RespondServiceError(c, err, "update_event_failed")
		return
	}
	if ev == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("event not found"))
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// DELETE /api/calendar/events/:id
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	deleted, err := h.events.DeleteEvent(dbctx.Context{Ctx: c.Request.Context()}, ownerID, eventID)
	if err != nil {
		h.log.Warn("DeleteEvent failed", "error", err, "event_id", eventID)
		response.RespondServiceError(c, err, "delete_event_failed")
		return
	}
	if !deleted {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("event not found"))
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

type addAttendeeRequest struct {
	ContactID uuid.UUID `json:"contact_id"`
}

// POST /api/calendar/events/:id/attendees
func (h *CalendarHandler) AddAttendee(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	var req addAttendeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.ContactID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", errors.New("contact_id is required"))
		return
	}
	ev, err := h.attendees.AddEventAttendee(dbctx.Context{Ctx: c.Request.Context()}, ownerID, eventID, req.ContactID)
	if err != nil {
		h.log.Warn("AddEventAttendee failed", "error", err, "event_id", eventID, "contact_id", req.ContactID)
		response.RespondServiceError(c, err, "add_attendee_failed")
		return
	}
	if ev == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("event or contact address not found"))
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// DELETE /api/calendar/events/:id/attendees/:contact_id
func (h *CalendarHandler) RemoveAttendee(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	contactID, ok := uuidParam(c, "contact_id", "invalid_contact_id")
	if !ok {
		return
	}
	ev, err := h.attendees.RemoveEventAttendee(dbctx.Context{Ctx: c.Request.Context()}, ownerID, eventID, contactID)
	if err != nil {
		h.log.Warn("RemoveEventAttendee failed", "error", err, "event_id", eventID, "contact_id", contactID)
		response.RespondServiceError(c, err, "remove_attendee_failed")
		return
	}
	if ev == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("event or contact address not found"))
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}
