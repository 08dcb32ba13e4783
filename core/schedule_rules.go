package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"asistio.com/asistio/core/models"
)

// All scheduling is local to the single business timezone.
var BusinessTZ = time.FixedZone("UTC-6", -6*3600)

const (
	// EarlyThreshold: an entry more than this before the scheduled entry
	// time is classified early and requires a comment.
	EarlyThreshold = 10 * time.Minute

	// GracePeriod: how long after a checkpoint deadline the absence scan
	// waits before synthesizing an issue.
	GracePeriod = 60 * time.Minute
)

// ErrScheduleNotConfigured signals a configuration gap, distinct from a
// non-work day. Callers must not report absences for unconfigured products.
var ErrScheduleNotConfigured = errors.New("no schedule configured for product type")

// ResolvedSchedule is a product schedule anchored to one calendar date in
// the business timezone. Times are populated even when IsWorkDay is false
// so late submissions on an off day can still be classified.
type ResolvedSchedule struct {
	IsWorkDay     bool
	Entry         time.Time
	EntryDeadline time.Time // Entry + Tolerance
	LunchStart    time.Time
	LunchEnd      time.Time // LunchStart + LunchDuration
	Exit          time.Time
	Tolerance     time.Duration
	LunchDuration time.Duration
}

// ParseWorkDays parses the stored weekday csv, e.g. "1,2,3,4,5".
func ParseWorkDays(s string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid work day index %q", part)
		}
		days[time.Weekday(n)] = true
	}
	return days, nil
}

// ParseTimeOnDate combines a base date with a time string (e.g. "08:00").
func ParseTimeOnDate(baseDate time.Time, timeStr string) (time.Time, error) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		t, err = time.Parse("15:04:05", timeStr)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), t.Hour(), t.Minute(), t.Second(), 0, baseDate.Location()), nil
}

// ResolveSchedule anchors the product schedule to the given date. holidays
// is keyed by "2006-01-02" in the business timezone; pass nil when the
// holiday calendar is not loaded.
func ResolveSchedule(sched *models.ProductSchedule, date time.Time, holidays map[string]bool) (ResolvedSchedule, error) {
	if sched == nil {
		return ResolvedSchedule{}, ErrScheduleNotConfigured
	}

	local := date.In(BusinessTZ)
	dateBase := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, BusinessTZ)

	days, err := ParseWorkDays(sched.WorkDays)
	if err != nil {
		return ResolvedSchedule{}, fmt.Errorf("schedule for %s: %w", sched.ProductType, err)
	}

	entry, err := ParseTimeOnDate(dateBase, sched.EntryTime)
	if err != nil {
		return ResolvedSchedule{}, fmt.Errorf("invalid entry time %s: %w", sched.EntryTime, err)
	}
	exit, err := ParseTimeOnDate(dateBase, sched.ExitTime)
	if err != nil {
		return ResolvedSchedule{}, fmt.Errorf("invalid exit time %s: %w", sched.ExitTime, err)
	}
	lunchStart, err := ParseTimeOnDate(dateBase, sched.LunchStart)
	if err != nil {
		return ResolvedSchedule{}, fmt.Errorf("invalid lunch start %s: %w", sched.LunchStart, err)
	}

	// Night shifts: if exit is before entry, it belongs to the next day.
	if exit.Before(entry) {
		exit = exit.Add(24 * time.Hour)
	}

	isWorkDay := days[dateBase.Weekday()]
	if isWorkDay && holidays != nil && holidays[dateBase.Format("2006-01-02")] && !sched.WorksOnHolidays {
		isWorkDay = false
	}

	tolerance := time.Duration(sched.ToleranceMin) * time.Minute
	lunchDuration := time.Duration(sched.LunchMinutes) * time.Minute

	return ResolvedSchedule{
		IsWorkDay:     isWorkDay,
		Entry:         entry,
		EntryDeadline: entry.Add(tolerance),
		LunchStart:    lunchStart,
		LunchEnd:      lunchStart.Add(lunchDuration),
		Exit:          exit,
		Tolerance:     tolerance,
		LunchDuration: lunchDuration,
	}, nil
}

// ValidateScheduleBounds enforces the configuration limits before an admin
// upsert is accepted.
func ValidateScheduleBounds(sched *models.ProductSchedule) error {
	if sched.ProductType == "" {
		return errors.New("product type is required")
	}
	if sched.LunchMinutes < 30 || sched.LunchMinutes > 120 {
		return fmt.Errorf("lunch duration %d out of range 30-120", sched.LunchMinutes)
	}
	if sched.ToleranceMin < 0 || sched.ToleranceMin > 30 {
		return fmt.Errorf("tolerance %d out of range 0-30", sched.ToleranceMin)
	}
	days, err := ParseWorkDays(sched.WorkDays)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return errors.New("at least one work day is required")
	}
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, BusinessTZ)
	for _, ts := range []string{sched.EntryTime, sched.ExitTime, sched.LunchStart} {
		if _, err := ParseTimeOnDate(base, ts); err != nil {
			return fmt.Errorf("invalid time %q: %w", ts, err)
		}
	}
	return nil
}
