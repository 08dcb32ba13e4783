package models

import "time"

// Check-in event types, in checkpoint order.
const (
	CheckInEntry       = "entry"
	CheckInLunchOut    = "lunch-out"
	CheckInLunchReturn = "lunch-return"
	CheckInExit        = "exit"
)

// Evaluation statuses.
const (
	StatusOnTime          = "on-time"
	StatusLate            = "late"
	StatusEarly           = "early"
	StatusInvalidLocation = "invalid-location"
	StatusUnknown         = "unknown"
)

// Photo validation statuses.
const (
	PhotoPending      = "pending"
	PhotoAutoApproved = "auto-approved"
	PhotoApproved     = "approved"
	PhotoRejected     = "rejected"
	PhotoNeedsReview  = "needs-review"
)

// ValidationResult is computed once at submission time and embedded in the
// event row.
type ValidationResult struct {
	DistanceMeters float64 `gorm:"column:distance_meters;type:decimal(12,2)" json:"distanceMeters"`
	LocationValid  bool    `gorm:"column:location_valid;not null" json:"locationValid"`
	MinutesLate    int32   `gorm:"column:minutes_late;not null;default:0" json:"minutesLate"`
	Status         string  `gorm:"column:status;type:varchar(20);not null" json:"status"`
}

// PhotoValidation is attached asynchronously by the vision callback and,
// later, by manual supervisor review.
type PhotoValidation struct {
	PhotoStatus     string     `gorm:"column:photo_status;type:varchar(20);not null;default:pending" json:"status"`
	Confidence      float64    `gorm:"column:photo_confidence;type:decimal(4,3);default:0" json:"confidence"`
	DetectedPerson  bool       `gorm:"column:photo_person;not null;default:false" json:"detectedPerson"`
	DetectedKiosk   bool       `gorm:"column:photo_kiosk;not null;default:false" json:"detectedKiosk"`
	RejectionReason string     `gorm:"column:photo_rejection_reason;type:varchar(255)" json:"rejectionReason,omitempty"`
	ReviewedBy      string     `gorm:"column:photo_reviewed_by;type:varchar(120)" json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:photo_reviewed_at;null" json:"reviewedAt,omitempty"`
}

type CheckInEvent struct {
	ID        string    `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;index:idx_user_date" json:"userId"`
	KioskCode string    `gorm:"column:kiosk_code;type:char(4);not null;index" json:"kioskCode"`
	Type      string    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Timestamp time.Time `gorm:"column:timestamp;type:datetime;not null" json:"timestamp"`
	Date      string    `gorm:"column:date;type:char(10);not null;index:idx_user_date" json:"date"` // yyyy-MM-dd in business tz

	// Denormalized for display and export.
	KioskName   string `gorm:"column:kiosk_name;type:varchar(120)" json:"kioskName"`
	ProductType string `gorm:"column:product_type;type:varchar(50);index" json:"productType"`

	Latitude  float64 `gorm:"column:latitude;type:decimal(10,7)" json:"latitude"`
	Longitude float64 `gorm:"column:longitude;type:decimal(10,7)" json:"longitude"`
	Accuracy  float64 `gorm:"column:accuracy;type:decimal(8,2)" json:"accuracy"`

	PhotoKey string `gorm:"column:photo_key;type:varchar(255)" json:"photoKey,omitempty"`
	Note     string `gorm:"column:note;type:varchar(500)" json:"note,omitempty"`

	ValidationResult `json:"validation"`
	PhotoValidation  `json:"photoValidation"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (CheckInEvent) TableName() string {
	return "checkin_events"
}
