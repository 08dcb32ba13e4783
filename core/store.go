package core

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asistio.com/asistio/core/models"
)

// Store is the gorm-backed implementation of the scan collaborators. The
// web handlers share it so the evaluator and detector read through the same
// lookups instead of ad hoc queries.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) ActiveFieldUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Where("active = ?", true).
		Where("role IN ?", []string{models.RoleSupervisor, models.RolePromotor}).
		Where("product_type IS NOT NULL AND product_type <> ''").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) HasApprovedTimeOff(ctx context.Context, userID string, date time.Time) (bool, error) {
	day := date.In(BusinessTZ).Format("2006-01-02")
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.TimeOffRequest{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.TimeOffApproved).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) ScheduleFor(ctx context.Context, productType string) (*models.ProductSchedule, error) {
	var sched models.ProductSchedule
	err := s.DB.WithContext(ctx).Where("product_type = ?", productType).First(&sched).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Store) Holidays(ctx context.Context) (map[string]bool, error) {
	var rows []models.Holiday
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, h := range rows {
		out[h.Date.In(BusinessTZ).Format("2006-01-02")] = true
	}
	return out, nil
}

func (s *Store) EventsForUserDate(ctx context.Context, userID, date string) ([]models.CheckInEvent, error) {
	var events []models.CheckInEvent
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("timestamp").
		Find(&events).Error
	return events, err
}

func (s *Store) HasEvent(ctx context.Context, userID, date, eventType string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.CheckInEvent{}).
		Where("user_id = ? AND date = ? AND type = ?", userID, date, eventType).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) HasIssue(ctx context.Context, userID, date, issueType string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.AttendanceIssue{}).
		Where("user_id = ? AND date = ? AND issue_type = ?", userID, date, issueType).
		Count(&count).Error
	return count > 0, err
}

// CreateIssue inserts under the (user, date, type) uniqueness key. A
// duplicate from a concurrent run is absorbed, not surfaced as a failure.
func (s *Store) CreateIssue(ctx context.Context, issue *models.AttendanceIssue) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(issue)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) CreateEvent(ctx context.Context, event *models.CheckInEvent) error {
	return s.DB.WithContext(ctx).Create(event).Error
}

func (s *Store) FindKiosk(ctx context.Context, code string) (*models.Kiosk, error) {
	var kiosk models.Kiosk
	err := s.DB.WithContext(ctx).Where("code = ?", code).First(&kiosk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kiosk, nil
}

// LunchOutFor returns the timestamp of the user's lunch-out for the date,
// or nil when none was recorded.
func (s *Store) LunchOutFor(ctx context.Context, userID, date string) (*time.Time, error) {
	var event models.CheckInEvent
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date = ? AND type = ?", userID, date, models.CheckInLunchOut).
		Order("timestamp").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ts := event.Timestamp
	return &ts, nil
}
