package domain

import (
	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/domain/contacts"
)

const (
	KindCalendarEvent = calendar.KindCalendarEvent

	TaskStatusTodo       = contacts.TaskStatusTodo
	TaskStatusInProgress = contacts.TaskStatusInProgress
	TaskStatusDone       = contacts.TaskStatusDone
)

type TimelineEvent = calendar.TimelineEvent
type CalendarEvent = calendar.CalendarEvent
type CalendarEventMeta = calendar.CalendarEventMeta
type BusySlot = calendar.BusySlot
type AvailabilitySlot = calendar.AvailabilitySlot
type WorkingHours = calendar.WorkingHours
type SessionPrepBundle = calendar.SessionPrepBundle

type Contact = contacts.Contact
type ContactSnapshot = contacts.ContactSnapshot
type Note = contacts.Note
type Task = contacts.Task
type Goal = contacts.Goal
