package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
	"asistio.com/asistio/utils"
)

func reformaKiosk() *models.Kiosk {
	return &models.Kiosk{
		Code:         "1042",
		Name:         "Reforma 222",
		ProductType:  "telecom",
		Latitude:     19.4326,
		Longitude:    -99.1332,
		RadiusMeters: 150,
		Active:       true,
	}
}

func entryAt(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, BusinessTZ) // Monday
}

// The schedule is entry=09:00 tolerance=5; the kiosk radius is 150 m. The
// near point is ~80 m out, the far point ~500 m.
func TestEvaluateEntryScenarios(t *testing.T) {
	near := Coordinates{Latitude: 19.43332, Longitude: -99.1332}
	far := Coordinates{Latitude: 19.43709, Longitude: -99.1332}

	tests := []struct {
		name        string
		ts          time.Time
		pos         Coordinates
		status      string
		minutesLate int32
		locationOK  bool
	}{
		{"on time within radius", entryAt(9, 4), near, models.StatusOnTime, 0, true},
		{"late within radius", entryAt(9, 12), near, models.StatusLate, 7, true},
		{"on time outside radius", entryAt(9, 4), far, models.StatusInvalidLocation, 0, false},
		{"exactly at deadline", entryAt(9, 5), near, models.StatusOnTime, 0, true},
		{"one minute past deadline", entryAt(9, 6), near, models.StatusLate, 1, true},
		{"slightly early is on time", entryAt(8, 52), near, models.StatusOnTime, 0, true},
		{"very early", entryAt(8, 40), near, models.StatusEarly, 0, true},
		{"late and outside radius", entryAt(9, 30), far, models.StatusInvalidLocation, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateCheckIn(CheckInSubmission{
				Type:      models.CheckInEntry,
				Timestamp: tt.ts,
				Reported:  tt.pos,
			}, reformaKiosk(), weekdaySchedule(), nil, EvaluateOptions{})

			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.minutesLate, res.MinutesLate)
			assert.Equal(t, tt.locationOK, res.LocationValid)
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	sub := CheckInSubmission{
		Type:      models.CheckInEntry,
		Timestamp: entryAt(9, 12),
		Reported:  Coordinates{Latitude: 19.43332, Longitude: -99.1332},
	}

	first := EvaluateCheckIn(sub, reformaKiosk(), weekdaySchedule(), nil, EvaluateOptions{})
	second := EvaluateCheckIn(sub, reformaKiosk(), weekdaySchedule(), nil, EvaluateOptions{})
	assert.Equal(t, first, second)
}

func TestEvaluateLunchReturn(t *testing.T) {
	near := Coordinates{Latitude: 19.43332, Longitude: -99.1332}
	lunchOut := entryAt(14, 0)

	tests := []struct {
		name        string
		returnAt    time.Time
		status      string
		minutesLate int32
	}{
		{"back within the hour", entryAt(14, 55), models.StatusOnTime, 0},
		{"back exactly on the hour", entryAt(15, 0), models.StatusOnTime, 0},
		{"overrun", entryAt(15, 20), models.StatusLate, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateCheckIn(CheckInSubmission{
				Type:           models.CheckInLunchReturn,
				Timestamp:      tt.returnAt,
				Reported:       near,
				PairedLunchOut: utils.Ptr(lunchOut),
			}, reformaKiosk(), weekdaySchedule(), nil, EvaluateOptions{})

			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.minutesLate, res.MinutesLate)
		})
	}
}

func TestEvaluateInformationalTypes(t *testing.T) {
	near := Coordinates{Latitude: 19.43332, Longitude: -99.1332}

	for _, eventType := range []string{models.CheckInLunchOut, models.CheckInExit} {
		res := EvaluateCheckIn(CheckInSubmission{
			Type:      eventType,
			Timestamp: entryAt(16, 45),
			Reported:  near,
		}, reformaKiosk(), weekdaySchedule(), nil, EvaluateOptions{})

		assert.Equal(t, models.StatusOnTime, res.Status)
		assert.Zero(t, res.MinutesLate)
	}
}

func TestEvaluateUnconfiguredSchedule(t *testing.T) {
	near := Coordinates{Latitude: 19.43332, Longitude: -99.1332}

	res := EvaluateCheckIn(CheckInSubmission{
		Type:      models.CheckInEntry,
		Timestamp: entryAt(9, 4),
		Reported:  near,
	}, reformaKiosk(), nil, nil, EvaluateOptions{})

	assert.Equal(t, models.StatusUnknown, res.Status)
	assert.True(t, res.LocationValid)

	// Invalid location still dominates when the schedule is missing.
	far := Coordinates{Latitude: 19.43709, Longitude: -99.1332}
	res = EvaluateCheckIn(CheckInSubmission{
		Type:      models.CheckInEntry,
		Timestamp: entryAt(9, 4),
		Reported:  far,
	}, reformaKiosk(), nil, nil, EvaluateOptions{})

	assert.Equal(t, models.StatusInvalidLocation, res.Status)
}

func TestRequiresComment(t *testing.T) {
	tests := []struct {
		name      string
		result    models.ValidationResult
		eventType string
		want      bool
	}{
		{"on time", models.ValidationResult{Status: models.StatusOnTime}, models.CheckInEntry, false},
		{"late under threshold", models.ValidationResult{Status: models.StatusLate, MinutesLate: 10}, models.CheckInEntry, false},
		{"late over threshold", models.ValidationResult{Status: models.StatusLate, MinutesLate: 20}, models.CheckInEntry, true},
		{"early always", models.ValidationResult{Status: models.StatusEarly}, models.CheckInEntry, true},
		{"lunch overrun always", models.ValidationResult{Status: models.StatusLate, MinutesLate: 3}, models.CheckInLunchReturn, true},
		{"invalid location", models.ValidationResult{Status: models.StatusInvalidLocation}, models.CheckInEntry, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresComment(tt.result, tt.eventType, 15))
		})
	}
}

func TestSevereLateNotification(t *testing.T) {
	event := &models.CheckInEvent{
		UserID:    "u1",
		Type:      models.CheckInEntry,
		Date:      "2025-06-02",
		KioskName: "Reforma 222",
		ValidationResult: models.ValidationResult{
			Status:      models.StatusLate,
			MinutesLate: 45,
		},
	}

	ev := SevereLateNotification(event, 30)
	assert.NotNil(t, ev)
	assert.Equal(t, NotifySevereLate, ev.Kind)
	assert.Equal(t, int32(45), ev.MinutesLate)

	event.MinutesLate = 20
	assert.Nil(t, SevereLateNotification(event, 30))

	event.MinutesLate = 45
	event.Status = models.StatusInvalidLocation
	assert.Nil(t, SevereLateNotification(event, 30))
}
