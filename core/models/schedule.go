package models

import "time"

// ProductSchedule defines the expected work calendar for one product type.
// Exactly one active row per product type; enforced by the unique index.
type ProductSchedule struct {
	ID              int32  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ProductType     string `gorm:"column:product_type;type:varchar(50);not null;uniqueIndex" json:"productType"`
	WorkDays        string `gorm:"column:work_days;type:varchar(13);not null" json:"workDays"` // csv of weekday indices, e.g. "1,2,3,4,5"
	WorksOnHolidays bool   `gorm:"column:works_on_holidays;not null;default:false" json:"worksOnHolidays"`
	EntryTime       string `gorm:"column:entry_time;type:char(5);not null" json:"entryTime"`   // "15:04"
	ExitTime        string `gorm:"column:exit_time;type:char(5);not null" json:"exitTime"`     // "15:04"
	LunchStart      string `gorm:"column:lunch_start;type:char(5);not null" json:"lunchStart"` // "15:04"
	LunchMinutes    int32  `gorm:"column:lunch_minutes;not null" json:"lunchMinutes"`          // 30..120
	ToleranceMin    int32  `gorm:"column:tolerance_minutes;not null" json:"toleranceMinutes"`  // 0..30

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (ProductSchedule) TableName() string {
	return "product_schedules"
}

// Holiday is a single calendar date the business treats as non-working
// unless the product schedule works on holidays.
type Holiday struct {
	Date time.Time `gorm:"primaryKey;column:date;type:date" json:"date"`
	Name string    `gorm:"column:name;type:varchar(120)" json:"name"`
}

func (Holiday) TableName() string {
	return "holidays"
}
