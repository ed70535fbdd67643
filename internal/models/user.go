package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the profile of an account with RoleUser. Users post tasks.
type User struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	AccountID string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"account_id"`
	FirstName string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string         `gorm:"type:varchar(255);not null" json:"email"`
	Mobile    string         `gorm:"type:varchar(30)" json:"mobile"`
	AddressID *string        `gorm:"type:varchar(36)" json:"address_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Account Account  `gorm:"foreignKey:AccountID" json:"-"`
	Address *Address `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Tasks   []Task   `gorm:"foreignKey:OwnerID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
