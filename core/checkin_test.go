package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
)

type fakeSubmissionStore struct {
	kiosk       *models.Kiosk
	schedule    *models.ProductSchedule
	scheduleErr error
	holidaysErr error
	lunchOut    *time.Time
	created     []*models.CheckInEvent
}

func (f *fakeSubmissionStore) FindKiosk(context.Context, string) (*models.Kiosk, error) {
	return f.kiosk, nil
}

func (f *fakeSubmissionStore) ScheduleFor(context.Context, string) (*models.ProductSchedule, error) {
	return f.schedule, f.scheduleErr
}

func (f *fakeSubmissionStore) Holidays(context.Context) (map[string]bool, error) {
	return nil, f.holidaysErr
}

func (f *fakeSubmissionStore) LunchOutFor(context.Context, string, string) (*time.Time, error) {
	return f.lunchOut, nil
}

func (f *fakeSubmissionStore) CreateEvent(_ context.Context, event *models.CheckInEvent) error {
	f.created = append(f.created, event)
	return nil
}

func submissionFixture() *fakeSubmissionStore {
	return &fakeSubmissionStore{kiosk: reformaKiosk(), schedule: weekdaySchedule()}
}

func entryRequest(ts time.Time) CheckInRequest {
	return CheckInRequest{
		UserID:    "u1",
		UserName:  "Ana Reyes",
		KioskCode: "1042",
		Type:      models.CheckInEntry,
		Timestamp: ts,
		Latitude:  19.43332,
		Longitude: -99.1332,
		PhotoKey:  "checkins/2025-06-02/u1.jpg",
	}
}

func TestSubmitCheckInOnTime(t *testing.T) {
	store := submissionFixture()

	event, notification, err := SubmitCheckIn(context.Background(), store, entryRequest(entryAt(9, 4)), SubmitOptions{})
	assert.NoError(t, err)
	assert.Nil(t, notification)
	assert.Equal(t, models.StatusOnTime, event.Status)
	assert.Equal(t, "2025-06-02", event.Date)
	assert.Len(t, store.created, 1)
}

func TestSubmitCheckInFailsOpenOnScheduleLookupError(t *testing.T) {
	store := submissionFixture()
	store.scheduleErr = errors.New("connection reset")
	store.holidaysErr = errors.New("connection reset")

	event, _, err := SubmitCheckIn(context.Background(), store, entryRequest(entryAt(9, 4)), SubmitOptions{})
	assert.NoError(t, err)
	assert.Len(t, store.created, 1)
	assert.Equal(t, models.StatusUnknown, event.Status)
	assert.True(t, event.LocationValid)
}

func TestSubmitCheckInRejectsUnknownKiosk(t *testing.T) {
	store := submissionFixture()
	store.kiosk = nil

	_, _, err := SubmitCheckIn(context.Background(), store, entryRequest(entryAt(9, 4)), SubmitOptions{})
	assert.ErrorIs(t, err, ErrKioskNotFound)
	assert.Empty(t, store.created)
}

func TestSubmitCheckInRejectsInactiveKiosk(t *testing.T) {
	store := submissionFixture()
	store.kiosk.Active = false

	_, _, err := SubmitCheckIn(context.Background(), store, entryRequest(entryAt(9, 4)), SubmitOptions{})
	assert.ErrorIs(t, err, ErrKioskInactive)
}

func TestSubmitCheckInEnforcesCommentContract(t *testing.T) {
	store := submissionFixture()

	// 40 minutes late, past the 15-minute comment threshold, no note.
	_, _, err := SubmitCheckIn(context.Background(), store, entryRequest(entryAt(9, 45)), SubmitOptions{})
	assert.ErrorIs(t, err, ErrCommentRequired)
	assert.Empty(t, store.created)

	req := entryRequest(entryAt(9, 45))
	req.Note = "metro line 3 was suspended"
	_, _, err = SubmitCheckIn(context.Background(), store, req, SubmitOptions{})
	assert.NoError(t, err)
	assert.Len(t, store.created, 1)
}

func TestSubmitCheckInSevereLateNotificationCarriesUserName(t *testing.T) {
	store := submissionFixture()

	req := entryRequest(entryAt(9, 45))
	req.Note = "metro line 3 was suspended"
	_, notification, err := SubmitCheckIn(context.Background(), store, req, SubmitOptions{})
	assert.NoError(t, err)
	assert.NotNil(t, notification)
	assert.Equal(t, NotifySevereLate, notification.Kind)
	assert.Equal(t, "Ana Reyes", notification.UserName)
	assert.Equal(t, int32(40), notification.MinutesLate)
}
