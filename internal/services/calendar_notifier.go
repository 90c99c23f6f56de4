package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/observability"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/realtime/bus"
)

// CalendarNotifier announces committed calendar changes. Delivery is best
// effort: failures are logged and never surface to the caller.
type CalendarNotifier interface {
	EventCreated(ctx context.Context, ownerID, eventID uuid.UUID)
	EventUpdated(ctx context.Context, ownerID, eventID uuid.UUID)
	EventDeleted(ctx context.Context, ownerID, eventID uuid.UUID)
}

type calendarNotifier struct {
	bus bus.Bus
	log *logger.Logger
}

func NewCalendarNotifier(b bus.Bus, baseLog *logger.Logger) CalendarNotifier {
	if b == nil {
		b = bus.NewNopBus()
	}
	return &calendarNotifier{bus: b, log: baseLog.With("service", "CalendarNotifier")}
}

func (n *calendarNotifier) EventCreated(ctx context.Context, ownerID, eventID uuid.UUID) {
	n.publish(ctx, bus.EventCreated, ownerID, eventID)
}

func (n *calendarNotifier) EventUpdated(ctx context.Context, ownerID, eventID uuid.UUID) {
	n.publish(ctx, bus.EventUpdated, ownerID, eventID)
}

func (n *calendarNotifier) EventDeleted(ctx context.Context, ownerID, eventID uuid.UUID) {
	n.publish(ctx, bus.EventDeleted, ownerID, eventID)
}

func (n *calendarNotifier) publish(ctx context.Context, typ string, ownerID, eventID uuid.UUID) {
	if ctx == nil {
		ctx = context.Background()
	}
	// The request may already be finishing; detach from its cancellation.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	err := n.bus.Publish(pctx, bus.Message{
		Type:       typ,
		OwnerID:    ownerID,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
	})
	observability.Current().IncCalendarChange(typ)
	if err != nil {
		n.log.Warn("calendar change publish failed", "type", typ, "owner_id", ownerID, "event_id", eventID, "error", err)
	}
}
