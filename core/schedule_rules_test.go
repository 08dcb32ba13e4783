package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
)

func weekdaySchedule() *models.ProductSchedule {
	return &models.ProductSchedule{
		ProductType:  "telecom",
		WorkDays:     "1,2,3,4,5",
		EntryTime:    "09:00",
		ExitTime:     "18:00",
		LunchStart:   "14:00",
		LunchMinutes: 60,
		ToleranceMin: 5,
	}
}

func TestResolveSchedule(t *testing.T) {
	// 2025-06-02 is a Monday.
	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, BusinessTZ)

	rs, err := ResolveSchedule(weekdaySchedule(), monday, nil)
	assert.NoError(t, err)
	assert.True(t, rs.IsWorkDay)

	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, BusinessTZ), rs.Entry)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 5, 0, 0, BusinessTZ), rs.EntryDeadline)
	assert.Equal(t, time.Date(2025, 6, 2, 14, 0, 0, 0, BusinessTZ), rs.LunchStart)
	assert.Equal(t, time.Date(2025, 6, 2, 15, 0, 0, 0, BusinessTZ), rs.LunchEnd)
	assert.Equal(t, time.Date(2025, 6, 2, 18, 0, 0, 0, BusinessTZ), rs.Exit)
	assert.Equal(t, 5*time.Minute, rs.Tolerance)
	assert.Equal(t, time.Hour, rs.LunchDuration)
}

func TestResolveScheduleNonWorkDay(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 12, 0, 0, 0, BusinessTZ)

	rs, err := ResolveSchedule(weekdaySchedule(), sunday, nil)
	assert.NoError(t, err)
	assert.False(t, rs.IsWorkDay)
	// Times are still resolved for off-day classification.
	assert.Equal(t, 9, rs.Entry.Hour())
}

func TestResolveScheduleHolidays(t *testing.T) {
	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, BusinessTZ)
	holidays := map[string]bool{"2025-06-02": true}

	rs, err := ResolveSchedule(weekdaySchedule(), monday, holidays)
	assert.NoError(t, err)
	assert.False(t, rs.IsWorkDay)

	worksHolidays := weekdaySchedule()
	worksHolidays.WorksOnHolidays = true
	rs, err = ResolveSchedule(worksHolidays, monday, holidays)
	assert.NoError(t, err)
	assert.True(t, rs.IsWorkDay)
}

func TestResolveScheduleUnconfigured(t *testing.T) {
	_, err := ResolveSchedule(nil, time.Now(), nil)
	assert.ErrorIs(t, err, ErrScheduleNotConfigured)
}

func TestResolveScheduleNightShift(t *testing.T) {
	sched := weekdaySchedule()
	sched.EntryTime = "22:00"
	sched.ExitTime = "06:00"

	monday := time.Date(2025, 6, 2, 23, 0, 0, 0, BusinessTZ)
	rs, err := ResolveSchedule(sched, monday, nil)
	assert.NoError(t, err)
	assert.True(t, rs.Exit.After(rs.Entry))
	assert.Equal(t, 3, rs.Exit.Day()) // exit rolls over to the next day
}

func TestParseWorkDays(t *testing.T) {
	days, err := ParseWorkDays("0,6")
	assert.NoError(t, err)
	assert.True(t, days[time.Sunday])
	assert.True(t, days[time.Saturday])
	assert.False(t, days[time.Monday])

	_, err = ParseWorkDays("1,7")
	assert.Error(t, err)

	_, err = ParseWorkDays("mon")
	assert.Error(t, err)
}

func TestValidateScheduleBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.ProductSchedule)
		ok     bool
	}{
		{"valid", func(*models.ProductSchedule) {}, true},
		{"lunch too short", func(s *models.ProductSchedule) { s.LunchMinutes = 20 }, false},
		{"lunch too long", func(s *models.ProductSchedule) { s.LunchMinutes = 121 }, false},
		{"lunch at lower bound", func(s *models.ProductSchedule) { s.LunchMinutes = 30 }, true},
		{"lunch at upper bound", func(s *models.ProductSchedule) { s.LunchMinutes = 120 }, true},
		{"negative tolerance", func(s *models.ProductSchedule) { s.ToleranceMin = -1 }, false},
		{"tolerance too large", func(s *models.ProductSchedule) { s.ToleranceMin = 31 }, false},
		{"tolerance at bound", func(s *models.ProductSchedule) { s.ToleranceMin = 30 }, true},
		{"no work days", func(s *models.ProductSchedule) { s.WorkDays = "" }, false},
		{"bad entry time", func(s *models.ProductSchedule) { s.EntryTime = "9am" }, false},
		{"missing product", func(s *models.ProductSchedule) { s.ProductType = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := weekdaySchedule()
			tt.mutate(s)
			err := ValidateScheduleBounds(s)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
