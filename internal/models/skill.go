package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type NatureOfWork string

const (
	NatureOfWorkOnsite NatureOfWork = "onsite"
	NatureOfWorkOnline NatureOfWork = "online"
)

// Valid reports whether n is a supported nature of work.
func (n NatureOfWork) Valid() bool {
	return n == NatureOfWorkOnsite || n == NatureOfWorkOnline
}

// Skill is a service a provider advertises in a category.
type Skill struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Experience   string          `gorm:"type:text;not null" json:"experience"`
	NatureOfWork NatureOfWork    `gorm:"type:varchar(10);not null" json:"nature_of_work"`
	HourlyRate   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hourly_rate"`
	CategoryID   string          `gorm:"type:varchar(36);not null;index" json:"category_id"`
	ProviderID   string          `gorm:"type:varchar(36);not null;index" json:"provider_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Provider Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
