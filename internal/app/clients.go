package app

import (
	"fmt"

	"github.com/yungbote/practiceboard-backend/internal/observability"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/realtime/bus"
)

type Clients struct {
	CalendarBus bus.Bus
	Metrics     *observability.Metrics
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (falls back to a no-op bus when REDIS_ADDR is unset)
	calendarBus, err := bus.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init calendar bus: %w", err)
	}

	return Clients{
		CalendarBus: calendarBus,
		Metrics:     observability.Init(log),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.CalendarBus != nil {
		_ = c.CalendarBus.Close()
	}
}
