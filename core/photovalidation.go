package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"asistio.com/asistio/core/models"
)

var ErrCheckInNotFound = errors.New("check-in event not found")

// PhotoVerdict is the external classification result, attached verbatim.
type PhotoVerdict struct {
	Status          string  `json:"status" binding:"required,oneof=auto-approved rejected needs-review"`
	Confidence      float64 `json:"confidence"`
	DetectedPerson  bool    `json:"detectedPerson"`
	DetectedKiosk   bool    `json:"detectedKiosk"`
	RejectionReason string  `json:"rejectionReason"`
}

// ApplyPhotoVerdict is phase two of photo validation: the event was created
// pending and the external verdict patches it once. A replayed callback for
// an already-patched event is a no-op, not an error.
func ApplyPhotoVerdict(ctx context.Context, db *gorm.DB, checkInID string, verdict PhotoVerdict) error {
	res := db.WithContext(ctx).Model(&models.CheckInEvent{}).
		Where("id = ? AND photo_status = ?", checkInID, models.PhotoPending).
		Updates(map[string]interface{}{
			"photo_status":           verdict.Status,
			"photo_confidence":       verdict.Confidence,
			"photo_person":           verdict.DetectedPerson,
			"photo_kiosk":            verdict.DetectedKiosk,
			"photo_rejection_reason": verdict.RejectionReason,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to apply photo verdict: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.CheckInEvent{}).Where("id = ?", checkInID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCheckInNotFound
	}
	// Already patched by an earlier delivery.
	return nil
}

// PhotoPipeline is the asynchronous half of photo validation: fetch the
// stored photo, classify it, patch the event. Best effort; a failure at any
// stage leaves the event pending for the manual review queue.
type PhotoPipeline struct {
	Fetch    func(ctx context.Context, key string) (photo []byte, mimeType string, err error)
	Classify func(ctx context.Context, photo []byte, mimeType string) (PhotoVerdict, error)
	Apply    func(ctx context.Context, checkInID string, verdict PhotoVerdict) error
	Logger   *zap.Logger
}

func (p *PhotoPipeline) Process(ctx context.Context, checkInID, photoKey string) error {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	photo, mimeType, err := p.Fetch(ctx, photoKey)
	if err != nil {
		log.Warn("photo fetch failed, event stays pending",
			zap.String("checkin", checkInID), zap.String("key", photoKey), zap.Error(err))
		return fmt.Errorf("photo fetch: %w", err)
	}

	verdict, err := p.Classify(ctx, photo, mimeType)
	if err != nil {
		log.Warn("photo classification failed, event stays pending",
			zap.String("checkin", checkInID), zap.Error(err))
		return fmt.Errorf("photo classification: %w", err)
	}

	if err := p.Apply(ctx, checkInID, verdict); err != nil {
		log.Warn("photo verdict apply failed",
			zap.String("checkin", checkInID), zap.Error(err))
		return err
	}

	log.Info("photo classified",
		zap.String("checkin", checkInID), zap.String("status", verdict.Status))
	return nil
}

// ReviewPhoto records a manual supervisor verdict. Allowed from any state
// the automatic pipeline can leave behind; the reviewer identity and time
// are kept for the audit trail.
func ReviewPhoto(ctx context.Context, db *gorm.DB, checkInID string, approve bool, reviewer, reason string, now time.Time) error {
	status := models.PhotoApproved
	if !approve {
		status = models.PhotoRejected
	}

	res := db.WithContext(ctx).Model(&models.CheckInEvent{}).
		Where("id = ?", checkInID).
		Updates(map[string]interface{}{
			"photo_status":           status,
			"photo_rejection_reason": reason,
			"photo_reviewed_by":      reviewer,
			"photo_reviewed_at":      now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to save photo review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}
