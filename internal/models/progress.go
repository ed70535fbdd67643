package models

import (
	"time"

	"gorm.io/gorm"
)

// Progress is an append-only work report on a task.
type Progress struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	TaskID      string    `gorm:"type:varchar(36);not null;index" json:"task_id"`
	ProviderID  string    `gorm:"type:varchar(36);not null;index" json:"provider_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Progress) TableName() string { return "progress" }

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
