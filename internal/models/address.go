package models

import "gorm.io/gorm"

type Address struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	StreetNo   string `gorm:"type:varchar(20);not null" json:"street_no"`
	StreetName string `gorm:"type:varchar(255);not null" json:"street_name"`
	City       string `gorm:"type:varchar(100);not null" json:"city"`
	State      string `gorm:"type:varchar(100);not null" json:"state"`
	PostCode   string `gorm:"type:varchar(20);not null" json:"post_code"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
