package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

type Services struct {
	Auth services.AuthService

	CalendarEvents services.CalendarEventService
	Availability   services.AvailabilityService
	Attendees      services.AttendeeService
	SessionPrep    services.SessionPrepService
	CalendarFeed   services.CalendarFeedService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	notifier := services.NewCalendarNotifier(clients.CalendarBus, log)
	events := services.NewCalendarEventService(db, log, reposet.TimelineEvent, notifier)
	reads := services.NewContactReadModel(log, reposet.Contact, reposet.Note, reposet.Task, reposet.Goal)

	return Services{
		Auth:           services.NewAuthService(log, cfg.JWTSecretKey),
		CalendarEvents: events,
		Availability:   services.NewAvailabilityService(log, events, cfg.Scheduling.AvailabilityOptions()),
		Attendees:      services.NewAttendeeService(log, events, reads),
		SessionPrep:    services.NewSessionPrepService(log, events, reads, cfg.Scheduling.SessionPrep),
		CalendarFeed:   services.NewCalendarFeedService(log, events),
	}
}
