package models

import "time"

const (
	TimeOffPending  = "pending"
	TimeOffApproved = "approved"
	TimeOffRejected = "rejected"
)

// TimeOffRequest is CRUD state owned by the admin screens. The absence scan
// only reads it to skip users with an approved request covering the date.
type TimeOffRequest struct {
	ID        string    `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;index" json:"userId"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null" json:"endDate"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	Reason    string    `gorm:"column:reason;type:varchar(500)" json:"reason"`

	DecidedBy string     `gorm:"column:decided_by;type:varchar(120)" json:"decidedBy,omitempty"`
	DecidedAt *time.Time `gorm:"column:decided_at;null" json:"decidedAt,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (TimeOffRequest) TableName() string {
	return "timeoff_requests"
}

// Covers reports whether the request spans the given business date.
func (r *TimeOffRequest) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(r.StartDate.Truncate(24*time.Hour)) && !d.After(r.EndDate.Truncate(24*time.Hour))
}
