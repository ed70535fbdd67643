package dto

import (
	"github.com/yukikurage/task-marketplace-api/internal/models"
)

// AddressDTO represents a postal address in API responses
type AddressDTO struct {
	StreetNo   string `json:"street_no"`
	StreetName string `json:"street_name"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostCode   string `json:"post_code"`
}

// UserDTO represents a task owner in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email,omitempty"`
	Mobile    string      `json:"mobile,omitempty"`
	Address   *AddressDTO `json:"address,omitempty"`
}

type IndividualDetailsDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CompanyDetailsDTO struct {
	CompanyName       string `json:"company_name"`
	BusinessTaxNumber string `json:"business_tax_number"`
	RepFirstName      string `json:"representative_first_name,omitempty"`
	RepLastName       string `json:"representative_last_name,omitempty"`
}

// ProviderDTO represents a provider in API responses. Only the details
// matching ProviderType are included.
type ProviderDTO struct {
	ID                string                `json:"id"`
	ProviderType      models.ProviderType   `json:"provider_type"`
	Email             string                `json:"email"`
	Mobile            string                `json:"mobile,omitempty"`
	Address           *AddressDTO           `json:"address,omitempty"`
	IndividualDetails *IndividualDetailsDTO `json:"individual_details,omitempty"`
	CompanyDetails    *CompanyDetailsDTO    `json:"company_details,omitempty"`
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	ActorID  string       `json:"actor_id"`
	Role     models.Role  `json:"role"`
	User     *UserDTO     `json:"user,omitempty"`
	Provider *ProviderDTO `json:"provider,omitempty"`
}

// LoginResponse carries the issued identity token
type LoginResponse struct {
	Token   string      `json:"token"`
	ActorID string      `json:"actor_id"`
	Role    models.Role `json:"role"`
}

func toAddressDTO(address *models.Address) *AddressDTO {
	if address == nil {
		return nil
	}
	return &AddressDTO{
		StreetNo:   address.StreetNo,
		StreetName: address.StreetName,
		City:       address.City,
		State:      address.State,
		PostCode:   address.PostCode,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Mobile:    user.Mobile,
		Address:   toAddressDTO(user.Address),
	}
}

// ToProviderDTO converts a Provider model to ProviderDTO
func ToProviderDTO(provider models.Provider) ProviderDTO {
	dto := ProviderDTO{
		ID:           provider.ID,
		ProviderType: provider.ProviderType,
		Email:        provider.Email,
		Mobile:       provider.Mobile,
		Address:      toAddressDTO(provider.Address),
	}

	switch provider.ProviderType {
	case models.ProviderTypeIndividual:
		if d := provider.IndividualDetails; d != nil {
			dto.IndividualDetails = &IndividualDetailsDTO{FirstName: d.FirstName, LastName: d.LastName}
		}
	case models.ProviderTypeCompany:
		if d := provider.CompanyDetails; d != nil {
			dto.CompanyDetails = &CompanyDetailsDTO{
				CompanyName:       d.CompanyName,
				BusinessTaxNumber: d.BusinessTaxNo,
				RepFirstName:      d.RepFirstName,
				RepLastName:       d.RepLastName,
			}
		}
	}

	return dto
}
