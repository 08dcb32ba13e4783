package models

import "time"

// Attendance issue types synthesized by the absence scan.
const (
	IssueMissingEntry       = "missing-entry"
	IssueMissingLunchOut    = "missing-lunch-out"
	IssueMissingLunchReturn = "missing-lunch-return"
	IssueMissingExit        = "missing-exit"
)

// AttendanceIssue rows are created only by the absence scan and resolved
// only by a manual one-way resolve action. The unique index keeps the scan
// idempotent even across overlapping runs.
type AttendanceIssue struct {
	ID         string    `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	UserID     string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:idx_user_date_type" json:"userId"`
	UserName   string    `gorm:"column:user_name;type:varchar(120)" json:"userName"`
	Date       string    `gorm:"column:date;type:char(10);not null;uniqueIndex:idx_user_date_type" json:"date"`
	IssueType  string    `gorm:"column:issue_type;type:varchar(30);not null;uniqueIndex:idx_user_date_type" json:"issueType"`
	DetectedAt time.Time `gorm:"column:detected_at;type:datetime;not null" json:"detectedAt"`

	Resolved       bool       `gorm:"column:resolved;not null;default:false" json:"resolved"`
	ResolvedBy     string     `gorm:"column:resolved_by;type:varchar(120)" json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at;null" json:"resolvedAt,omitempty"`
	ResolutionNote string     `gorm:"column:resolution_note;type:varchar(500)" json:"resolutionNote,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (AttendanceIssue) TableName() string {
	return "attendance_issues"
}
