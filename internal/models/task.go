package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"gorm.io/gorm"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyAUD Currency = "AUD"
	CurrencySGD Currency = "SGD"
	CurrencyINR Currency = "INR"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyAUD, CurrencySGD, CurrencyINR:
		return true
	default:
		return false
	}
}

type Task struct {
	ID                string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name              string           `gorm:"type:varchar(255);not null" json:"name"`
	Description       string           `gorm:"type:text" json:"description"`
	ExpectedStartDate time.Time        `gorm:"not null;index" json:"expected_start_date"`
	ExpectedHours     int              `gorm:"not null" json:"expected_hours"`
	HourlyRate        decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"hourly_rate"`
	Currency          Currency         `gorm:"type:varchar(3);not null" json:"currency"`
	Status            lifecycle.Status `gorm:"type:varchar(30);not null;default:'created';index" json:"status"`
	OwnerID           string           `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	CategoryID        string           `gorm:"type:varchar(36);not null;index" json:"category_id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Owner    User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Offers   []Offer    `gorm:"foreignKey:TaskID" json:"offers,omitempty"`
	Progress []Progress `gorm:"foreignKey:TaskID" json:"progress,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.Status == "" {
		t.Status = lifecycle.StatusCreated
	}
	return nil
}
