package core

import (
	"context"

	"asistio.com/asistio/core/models"
)

const (
	NotifySevereLate = "severe-late"
	NotifyAbsence    = "absence"

	// SevereLateThreshold: minutes late beyond which a check-in warrants an
	// outbound notification.
	SevereLateThreshold = 30
)

// NotificationEvent is what the core hands to the delivery layer. The core
// decides that a notification is warranted; delivery mechanics live in
// infrastructure.
type NotificationEvent struct {
	Kind        string `json:"kind"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	EventType   string `json:"eventType,omitempty"`
	IssueType   string `json:"issueType,omitempty"`
	Date        string `json:"date"`
	MinutesLate int32  `json:"minutesLate,omitempty"`
	KioskName   string `json:"kioskName,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, ev NotificationEvent) error
}

// SevereLateNotification returns the event to emit for a freshly evaluated
// check-in, or nil when none is warranted. threshold <= 0 uses the default.
func SevereLateNotification(event *models.CheckInEvent, thresholdMinutes int32) *NotificationEvent {
	if thresholdMinutes <= 0 {
		thresholdMinutes = SevereLateThreshold
	}
	if event.Status != models.StatusLate || event.MinutesLate < thresholdMinutes {
		return nil
	}
	return &NotificationEvent{
		Kind:        NotifySevereLate,
		UserID:      event.UserID,
		EventType:   event.Type,
		Date:        event.Date,
		MinutesLate: event.MinutesLate,
		KioskName:   event.KioskName,
	}
}

// AbsenceNotification is emitted for every issue the scan creates.
func AbsenceNotification(issue *models.AttendanceIssue) NotificationEvent {
	return NotificationEvent{
		Kind:      NotifyAbsence,
		UserID:    issue.UserID,
		UserName:  issue.UserName,
		IssueType: issue.IssueType,
		Date:      issue.Date,
	}
}
