package models

import (
	"time"

	"gorm.io/gorm"
)

type ProviderType string

const (
	ProviderTypeIndividual ProviderType = "individual"
	ProviderTypeCompany    ProviderType = "company"
)

// Role returns the account role matching the provider type.
func (t ProviderType) Role() Role {
	if t == ProviderTypeCompany {
		return RoleProviderCompany
	}
	return RoleProviderIndividual
}

// Provider is the profile of an account with a provider role. Providers bid
// on tasks and carry out the accepted ones.
type Provider struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	AccountID    string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"account_id"`
	ProviderType ProviderType   `gorm:"type:varchar(20);not null" json:"provider_type"`
	Email        string         `gorm:"type:varchar(255);not null" json:"email"`
	Mobile       string         `gorm:"type:varchar(30)" json:"mobile"`
	AddressID    *string        `gorm:"type:varchar(36)" json:"address_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Account           Account            `gorm:"foreignKey:AccountID" json:"-"`
	Address           *Address           `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	IndividualDetails *IndividualDetails `gorm:"foreignKey:ProviderID" json:"individual_details,omitempty"`
	CompanyDetails    *CompanyDetails    `gorm:"foreignKey:ProviderID" json:"company_details,omitempty"`
	Offers            []Offer            `gorm:"foreignKey:ProviderID" json:"-"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

type IndividualDetails struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProviderID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"provider_id"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null" json:"last_name"`
}

func (d *IndividualDetails) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

type CompanyDetails struct {
	ID            string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProviderID    string `gorm:"type:varchar(36);uniqueIndex;not null" json:"provider_id"`
	CompanyName   string `gorm:"type:varchar(255);not null" json:"company_name"`
	BusinessTaxNo string `gorm:"type:varchar(50);not null" json:"business_tax_number"`
	RepFirstName  string `gorm:"type:varchar(100)" json:"representative_first_name"`
	RepLastName   string `gorm:"type:varchar(100)" json:"representative_last_name"`
}

func (d *CompanyDetails) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
