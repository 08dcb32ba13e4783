package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"asistio.com/asistio/core/models"
)

var (
	ErrKioskNotFound   = errors.New("kiosk not found")
	ErrKioskInactive   = errors.New("kiosk is inactive")
	ErrCommentRequired = errors.New("a comment of at least 10 characters is required")
)

// CheckInRequest is the employee submission after binding.
type CheckInRequest struct {
	UserID    string
	UserName  string
	KioskCode string
	Type      string
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Accuracy  float64
	PhotoKey  string
	Note      string
}

// SubmitOptions carries the configured thresholds into a submission.
type SubmitOptions struct {
	DefaultRadius           float64
	EarlyThreshold          time.Duration
	CommentThresholdMinutes int32
	SevereLateMinutes       int32
	Logger                  *zap.Logger
}

// SubmissionStore is what a submission reads and writes. *Store implements
// it against gorm.
type SubmissionStore interface {
	FindKiosk(ctx context.Context, code string) (*models.Kiosk, error)
	ScheduleFor(ctx context.Context, productType string) (*models.ProductSchedule, error)
	Holidays(ctx context.Context) (map[string]bool, error)
	LunchOutFor(ctx context.Context, userID, date string) (*time.Time, error)
	CreateEvent(ctx context.Context, event *models.CheckInEvent) error
}

// SubmitCheckIn evaluates and persists one check-in. Recording fails open:
// a broken schedule, holiday or lunch-out lookup never rejects the
// submission, the event is recorded with an unknown status so the
// attendance record survives. Only kiosk problems and the comment contract
// reject. The returned NotificationEvent is non-nil when delivery is
// warranted.
func SubmitCheckIn(ctx context.Context, store SubmissionStore, req CheckInRequest, opts SubmitOptions) (*models.CheckInEvent, *NotificationEvent, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	kiosk, err := store.FindKiosk(ctx, req.KioskCode)
	if err != nil {
		return nil, nil, fmt.Errorf("kiosk lookup: %w", err)
	}
	if kiosk == nil {
		return nil, nil, ErrKioskNotFound
	}
	if !kiosk.Active {
		return nil, nil, ErrKioskInactive
	}

	sched, err := store.ScheduleFor(ctx, kiosk.ProductType)
	if err != nil {
		log.Warn("schedule lookup failed, recording with unknown status",
			zap.String("user", req.UserID), zap.Error(err))
		sched = nil
	}
	holidays, err := store.Holidays(ctx)
	if err != nil {
		log.Warn("holiday lookup failed", zap.String("user", req.UserID), zap.Error(err))
		holidays = nil
	}

	date := req.Timestamp.In(BusinessTZ).Format("2006-01-02")

	sub := CheckInSubmission{
		Type:      req.Type,
		Timestamp: req.Timestamp,
		Reported:  Coordinates{Latitude: req.Latitude, Longitude: req.Longitude},
		Accuracy:  req.Accuracy,
	}
	if req.Type == models.CheckInLunchReturn {
		lunchOut, err := store.LunchOutFor(ctx, req.UserID, date)
		if err != nil {
			log.Warn("lunch-out lookup failed", zap.String("user", req.UserID), zap.Error(err))
			lunchOut = nil
		}
		sub.PairedLunchOut = lunchOut
	}

	result := EvaluateCheckIn(sub, kiosk, sched, holidays, EvaluateOptions{
		EarlyThreshold: opts.EarlyThreshold,
		DefaultRadius:  opts.DefaultRadius,
	})

	if RequiresComment(result, req.Type, opts.CommentThresholdMinutes) && len(strings.TrimSpace(req.Note)) < MinCommentLength {
		return nil, nil, ErrCommentRequired
	}

	event := &models.CheckInEvent{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		KioskCode:        kiosk.Code,
		KioskName:        kiosk.Name,
		ProductType:      kiosk.ProductType,
		Type:             req.Type,
		Timestamp:        req.Timestamp,
		Date:             date,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Accuracy:         req.Accuracy,
		PhotoKey:         req.PhotoKey,
		Note:             req.Note,
		ValidationResult: result,
		PhotoValidation:  models.PhotoValidation{PhotoStatus: models.PhotoPending},
	}
	// An infinite distance sentinel cannot be stored in a DECIMAL column.
	if math.IsInf(event.DistanceMeters, 1) {
		event.DistanceMeters = -1
	}

	if err := store.CreateEvent(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("failed to persist check-in: %w", err)
	}

	notification := SevereLateNotification(event, opts.SevereLateMinutes)
	if notification != nil {
		notification.UserName = req.UserName
	}
	return event, notification, nil
}

// CheckInFilter is the tagged filter bag for event searches. Precedence when
// building the query: date range, then kiosk, then product type, then the
// rest; the most selective index is hit first.
type CheckInFilter struct {
	StartDate string
	EndDate   string
	KioskCode string
	Product   string
	UserID    string
	Status    string
}

func SearchCheckIns(ctx context.Context, db *gorm.DB, filter CheckInFilter, limit, offset int) ([]models.CheckInEvent, int64, error) {
	q := db.WithContext(ctx).Model(&models.CheckInEvent{})

	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}
	if filter.KioskCode != "" {
		q = q.Where("kiosk_code = ?", filter.KioskCode)
	}
	if filter.Product != "" {
		q = q.Where("product_type = ?", filter.Product)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.CheckInEvent
	err := q.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}
