package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer is a provider's bid on a task. Both flags false means pending; at
// most one of them is ever true.
type Offer struct {
	ID         string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Rate       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	Message    string          `gorm:"type:text" json:"message"`
	IsAccepted bool            `gorm:"not null;default:false" json:"is_accepted"`
	IsRejected bool            `gorm:"not null;default:false" json:"is_rejected"`
	TaskID     string          `gorm:"type:varchar(36);not null;index" json:"task_id"`
	ProviderID string          `gorm:"type:varchar(36);not null;index" json:"provider_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relations
	Task     Task     `gorm:"foreignKey:TaskID" json:"-"`
	Provider Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// IsPending reports whether the task owner has not decided the offer yet.
func (o *Offer) IsPending() bool {
	return !o.IsAccepted && !o.IsRejected
}
