package core

import (
	"math"
	"time"

	"asistio.com/asistio/core/models"
)

// CheckInSubmission carries everything the evaluator needs about one event.
// PairedLunchOut is the timestamp of the same user's lunch-out for the day,
// required only to judge a lunch-return.
type CheckInSubmission struct {
	Type           string
	Timestamp      time.Time
	Reported       Coordinates
	Accuracy       float64
	PairedLunchOut *time.Time
}

// EvaluateOptions override the built-in thresholds. Zero values fall back
// to the defaults.
type EvaluateOptions struct {
	EarlyThreshold time.Duration
	DefaultRadius  float64
}

// EvaluateCheckIn classifies one submission. Pure: no storage, no clock.
//
// Location is validated first and an out-of-radius position dominates the
// status, but distance and lateness are still computed so the record stays
// transparent. An unconfigured schedule yields status unknown rather than
// an error; the submission must still be recorded.
func EvaluateCheckIn(sub CheckInSubmission, kiosk *models.Kiosk, sched *models.ProductSchedule, holidays map[string]bool, opts EvaluateOptions) models.ValidationResult {
	earlyThreshold := opts.EarlyThreshold
	if earlyThreshold == 0 {
		earlyThreshold = EarlyThreshold
	}

	var kioskPos Coordinates
	if kiosk != nil {
		kioskPos = Coordinates{Latitude: kiosk.Latitude, Longitude: kiosk.Longitude}
	}
	geo := ValidateLocation(sub.Reported, kioskPos, EffectiveRadius(kiosk, opts.DefaultRadius))

	result := models.ValidationResult{
		DistanceMeters: geo.DistanceMeters,
		LocationValid:  geo.WithinRadius,
		Status:         models.StatusOnTime,
	}

	rs, err := ResolveSchedule(sched, sub.Timestamp, holidays)
	if err != nil {
		result.Status = models.StatusUnknown
		if !geo.WithinRadius {
			result.Status = models.StatusInvalidLocation
		}
		return result
	}

	switch sub.Type {
	case models.CheckInEntry:
		switch {
		case sub.Timestamp.After(rs.EntryDeadline):
			result.Status = models.StatusLate
			result.MinutesLate = minutesLate(sub.Timestamp, rs.EntryDeadline)
		case sub.Timestamp.Before(rs.Entry.Add(-earlyThreshold)):
			result.Status = models.StatusEarly
		}
	case models.CheckInLunchReturn:
		if sub.PairedLunchOut != nil {
			elapsed := sub.Timestamp.Sub(*sub.PairedLunchOut)
			if elapsed > rs.LunchDuration {
				result.Status = models.StatusLate
				result.MinutesLate = minutesLate(sub.Timestamp, sub.PairedLunchOut.Add(rs.LunchDuration))
			}
		}
	case models.CheckInLunchOut, models.CheckInExit:
		// Informational; no punctuality verdict.
	}

	if !geo.WithinRadius {
		result.Status = models.StatusInvalidLocation
	}

	return result
}

// minutesLate is ceil((ts - reference) / 60s), floored at 0.
func minutesLate(ts, reference time.Time) int32 {
	d := ts.Sub(reference)
	if d <= 0 {
		return 0
	}
	return int32(math.Ceil(d.Minutes()))
}

// RequiresComment is the submission-time contract: an explanation is
// mandatory for events beyond the comment threshold, a lunch overrun, or an
// early entry. commentThreshold <= 0 falls back to 15 minutes.
func RequiresComment(result models.ValidationResult, eventType string, commentThresholdMinutes int32) bool {
	if commentThresholdMinutes <= 0 {
		commentThresholdMinutes = 15
	}
	if result.Status == models.StatusEarly {
		return true
	}
	if result.Status == models.StatusLate {
		if eventType == models.CheckInLunchReturn {
			return true
		}
		return result.MinutesLate > commentThresholdMinutes
	}
	return false
}

// MinCommentLength applies when RequiresComment is true.
const MinCommentLength = 10
