package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"asistio.com/asistio/core/models"
)

// Collaborators the scan reads through. Kiosk and schedule data are
// read-only inputs during a run; the issue store is the only sink.

type UserSource interface {
	// ActiveFieldUsers returns active supervisors and promotors that have a
	// product type assigned.
	ActiveFieldUsers(ctx context.Context) ([]models.User, error)
}

type TimeOffSource interface {
	HasApprovedTimeOff(ctx context.Context, userID string, date time.Time) (bool, error)
}

type ScheduleSource interface {
	// ScheduleFor returns nil when no schedule is configured for the product.
	ScheduleFor(ctx context.Context, productType string) (*models.ProductSchedule, error)
	Holidays(ctx context.Context) (map[string]bool, error)
}

type CheckInSource interface {
	EventsForUserDate(ctx context.Context, userID, date string) ([]models.CheckInEvent, error)
	// HasEvent re-reads the store for one event type; used as the
	// read-after-write guard immediately before an issue is created.
	HasEvent(ctx context.Context, userID, date, eventType string) (bool, error)
}

type IssueStore interface {
	HasIssue(ctx context.Context, userID, date, issueType string) (bool, error)
	// CreateIssue returns false without error when the uniqueness key
	// (user, date, type) already holds a row.
	CreateIssue(ctx context.Context, issue *models.AttendanceIssue) (bool, error)
}

// ScanSummary reports what a run did and, when it did nothing, why.
type ScanSummary struct {
	Date          string   `json:"date"`
	Processed     int      `json:"processed"`
	Skipped       int      `json:"skipped"`
	Errored       int      `json:"errored"`
	IssuesCreated int      `json:"issuesCreated"`
	Errors        []string `json:"errors,omitempty"`
	Diagnostics   []string `json:"diagnostics,omitempty"`
}

type ScanOptions struct {
	Grace          time.Duration // after each checkpoint deadline; default GracePeriod
	PerUserTimeout time.Duration // default 10s
	// DryRun evaluates and counts would-be issues without writing them or
	// notifying anyone.
	DryRun bool
}

// Detector runs the daily absence scan.
type Detector struct {
	Users     UserSource
	TimeOff   TimeOffSource
	Schedules ScheduleSource
	CheckIns  CheckInSource
	Issues    IssueStore
	Notifier  Notifier
	Logger    *zap.Logger
	Opts      ScanOptions
}

type checkpoint struct {
	eventType string
	issueType string
	deadline  func(rs ResolvedSchedule) time.Time
	// applies reports whether the checkpoint is expected at all given the
	// day's events. Later checkpoints hang off their predecessor: a day
	// with no entry at all yields a missing-entry issue, not four.
	applies func(events []models.CheckInEvent) bool
}

func hasEventOfType(events []models.CheckInEvent, t string) bool {
	for i := range events {
		if events[i].Type == t {
			return true
		}
	}
	return false
}

var checkpoints = []checkpoint{
	{
		eventType: models.CheckInEntry,
		issueType: models.IssueMissingEntry,
		deadline:  func(rs ResolvedSchedule) time.Time { return rs.EntryDeadline },
		applies:   func([]models.CheckInEvent) bool { return true },
	},
	{
		eventType: models.CheckInLunchOut,
		issueType: models.IssueMissingLunchOut,
		deadline:  func(rs ResolvedSchedule) time.Time { return rs.LunchStart },
		applies: func(events []models.CheckInEvent) bool {
			return hasEventOfType(events, models.CheckInEntry)
		},
	},
	{
		eventType: models.CheckInLunchReturn,
		issueType: models.IssueMissingLunchReturn,
		deadline:  func(rs ResolvedSchedule) time.Time { return rs.LunchEnd },
		applies: func(events []models.CheckInEvent) bool {
			return hasEventOfType(events, models.CheckInLunchOut)
		},
	},
	{
		eventType: models.CheckInExit,
		issueType: models.IssueMissingExit,
		deadline:  func(rs ResolvedSchedule) time.Time { return rs.Exit },
		applies: func(events []models.CheckInEvent) bool {
			return hasEventOfType(events, models.CheckInEntry)
		},
	},
}

// Run scans every eligible user once for the business date of now. Per-user
// failures are accumulated; the run always completes for unaffected users.
func (d *Detector) Run(ctx context.Context, now time.Time) (ScanSummary, error) {
	local := now.In(BusinessTZ)
	date := local.Format("2006-01-02")
	summary := ScanSummary{Date: date}

	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	grace := d.Opts.Grace
	if grace == 0 {
		grace = GracePeriod
	}
	perUserTimeout := d.Opts.PerUserTimeout
	if perUserTimeout == 0 {
		perUserTimeout = 10 * time.Second
	}

	users, err := d.Users.ActiveFieldUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list active users: %w", err)
	}
	if len(users) == 0 {
		summary.Diagnostics = append(summary.Diagnostics, "no active users with a product type assigned")
		return summary, nil
	}

	holidays, err := d.Schedules.Holidays(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load holidays: %w", err)
	}

	for _, user := range users {
		created, skipped, err := d.scanUser(ctx, user, local, date, holidays, grace, perUserTimeout)
		switch {
		case err != nil:
			summary.Errored++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", user.ID, err))
			log.Warn("absence scan failed for user", zap.String("user", user.ID), zap.Error(err))
		case skipped != "":
			summary.Skipped++
			summary.Diagnostics = append(summary.Diagnostics, fmt.Sprintf("%s: %s", user.ID, skipped))
		default:
			summary.Processed++
			summary.IssuesCreated += created
		}
	}

	if summary.IssuesCreated == 0 && len(summary.Diagnostics) == 0 {
		summary.Diagnostics = append(summary.Diagnostics, "all expected check-ins present")
	}

	log.Info("absence scan complete",
		zap.String("date", date),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored),
		zap.Int("issues", summary.IssuesCreated),
	)

	return summary, nil
}

// scanUser returns the number of issues created, or a non-empty skip reason.
func (d *Detector) scanUser(ctx context.Context, user models.User, now time.Time, date string, holidays map[string]bool, grace, timeout time.Duration) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if user.ProductType == nil || *user.ProductType == "" {
		return 0, "no product type assigned", nil
	}

	onLeave, err := d.TimeOff.HasApprovedTimeOff(ctx, user.ID, now)
	if err != nil {
		return 0, "", fmt.Errorf("time-off lookup: %w", err)
	}
	if onLeave {
		return 0, "approved time off", nil
	}

	sched, err := d.Schedules.ScheduleFor(ctx, *user.ProductType)
	if err != nil {
		return 0, "", fmt.Errorf("schedule lookup: %w", err)
	}

	rs, err := ResolveSchedule(sched, now, holidays)
	if err != nil {
		// Configuration gap, not an absence. Surfaced so admins can fix the
		// schedule instead of being told everyone is missing.
		return 0, fmt.Sprintf("schedule not configured for product %s", *user.ProductType), nil
	}
	if !rs.IsWorkDay {
		return 0, "not a work day", nil
	}

	events, err := d.CheckIns.EventsForUserDate(ctx, user.ID, date)
	if err != nil {
		return 0, "", fmt.Errorf("event lookup: %w", err)
	}

	created := 0
	for _, cp := range checkpoints {
		if !cp.applies(events) {
			continue
		}
		if now.Before(cp.deadline(rs).Add(grace)) {
			continue
		}
		if hasEventOfType(events, cp.eventType) {
			continue
		}

		exists, err := d.Issues.HasIssue(ctx, user.ID, date, cp.issueType)
		if err != nil {
			return created, "", fmt.Errorf("issue lookup: %w", err)
		}
		if exists {
			continue
		}

		// Snapshot re-check: an event written after EventsForUserDate must
		// not be reported absent.
		arrived, err := d.CheckIns.HasEvent(ctx, user.ID, date, cp.eventType)
		if err != nil {
			return created, "", fmt.Errorf("event re-check: %w", err)
		}
		if arrived {
			continue
		}

		if d.Opts.DryRun {
			created++
			continue
		}

		issue := &models.AttendanceIssue{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			UserName:   user.Name,
			Date:       date,
			IssueType:  cp.issueType,
			DetectedAt: now,
		}
		ok, err := d.Issues.CreateIssue(ctx, issue)
		if err != nil {
			return created, "", fmt.Errorf("issue create: %w", err)
		}
		if !ok {
			// Lost the race against a concurrent run; the row exists.
			continue
		}
		created++

		if d.Notifier != nil {
			if err := d.Notifier.Notify(ctx, AbsenceNotification(issue)); err != nil && d.Logger != nil {
				d.Logger.Warn("absence notification failed", zap.String("user", user.ID), zap.Error(err))
			}
		}
	}

	return created, "", nil
}
