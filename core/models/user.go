package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RolePromotor   = "promotor"
)

type User struct {
	ID          string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Name        string  `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Email       string  `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Role        string  `gorm:"column:role;type:varchar(20);not null;index" json:"role"`
	ProductType *string `gorm:"column:product_type;type:varchar(50);null;index" json:"productType,omitempty"`
	KioskCode   *string `gorm:"column:kiosk_code;type:char(4);null" json:"kioskCode,omitempty"`
	Active      bool    `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
