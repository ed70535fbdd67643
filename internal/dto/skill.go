package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/models"
)

// SkillDTO represents a provider skill in API responses
type SkillDTO struct {
	ID           string              `json:"id"`
	Experience   string              `json:"experience"`
	NatureOfWork models.NatureOfWork `json:"nature_of_work"`
	HourlyRate   decimal.Decimal     `json:"hourly_rate"`
	CategoryID   string              `json:"category_id"`
	Category     *CategoryDTO        `json:"category,omitempty"`
	ProviderID   string              `json:"provider_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func ToSkillDTO(skill models.Skill) SkillDTO {
	dto := SkillDTO{
		ID:           skill.ID,
		Experience:   skill.Experience,
		NatureOfWork: skill.NatureOfWork,
		HourlyRate:   skill.HourlyRate,
		CategoryID:   skill.CategoryID,
		ProviderID:   skill.ProviderID,
		CreatedAt:    skill.CreatedAt,
		UpdatedAt:    skill.UpdatedAt,
	}
	if skill.Category.ID != "" {
		category := ToCategoryDTO(skill.Category)
		dto.Category = &category
	}
	return dto
}

func ToSkillDTOs(skills []models.Skill) []SkillDTO {
	dtos := make([]SkillDTO, len(skills))
	for i, skill := range skills {
		dtos[i] = ToSkillDTO(skill)
	}
	return dtos
}
