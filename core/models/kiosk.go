package models

import "time"

type Kiosk struct {
	Code         string  `gorm:"primaryKey;column:code;type:char(4)" json:"code"`
	Name         string  `gorm:"column:name;type:varchar(120);not null" json:"name"`
	City         string  `gorm:"column:city;type:varchar(80)" json:"city"`
	State        string  `gorm:"column:state;type:varchar(80)" json:"state"`
	ProductType  string  `gorm:"column:product_type;type:varchar(50);not null;index" json:"productType"`
	Latitude     float64 `gorm:"column:latitude;type:decimal(10,7)" json:"latitude"`
	Longitude    float64 `gorm:"column:longitude;type:decimal(10,7)" json:"longitude"`
	RadiusMeters float64 `gorm:"column:radius_meters;type:decimal(8,2);default:0" json:"radiusMeters"`
	Active       bool    `gorm:"column:active;not null;default:true" json:"active"`
	HubCode      *string `gorm:"column:hub_code;type:char(4);null" json:"hubCode,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Kiosk) TableName() string {
	return "kiosks"
}
