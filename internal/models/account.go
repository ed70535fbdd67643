package models

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies what kind of actor owns an account.
type Role string

const (
	RoleUser               Role = "user"
	RoleProviderIndividual Role = "provider_individual"
	RoleProviderCompany    Role = "provider_company"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProviderIndividual, RoleProviderCompany:
		return true
	default:
		return false
	}
}

// IsProvider reports whether r is one of the provider roles.
func (r Role) IsProvider() bool {
	return r == RoleProviderIndividual || r == RoleProviderCompany
}

type Account struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(30);not null" json:"role"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
