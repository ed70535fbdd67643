package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// CreateSkillInput represents input for listing a new skill
type CreateSkillInput struct {
	Experience   string
	NatureOfWork models.NatureOfWork
	HourlyRate   decimal.Decimal
	CategoryID   string
}

// UpdateSkillInput holds the fields to change. Nil fields are left as is.
type UpdateSkillInput struct {
	Experience   *string
	NatureOfWork *models.NatureOfWork
	HourlyRate   *decimal.Decimal
	CategoryID   *string
}

// SkillFilter narrows the public skill listing. Empty fields match all.
type SkillFilter struct {
	ProviderID string
	CategoryID string
}

func (in CreateSkillInput) validate() error {
	if strings.TrimSpace(in.Experience) == "" {
		return ErrExperienceRequired
	}
	if !in.NatureOfWork.Valid() {
		return ErrInvalidNatureOfWork
	}
	if in.HourlyRate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

func (in UpdateSkillInput) validate() error {
	if in.Experience != nil && strings.TrimSpace(*in.Experience) == "" {
		return ErrExperienceRequired
	}
	if in.NatureOfWork != nil && !in.NatureOfWork.Valid() {
		return ErrInvalidNatureOfWork
	}
	if in.HourlyRate != nil && in.HourlyRate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

// SkillService manages the skills providers advertise.
type SkillService struct {
	stores repository.Stores
	tx     repository.Transactor
	logger zerolog.Logger
}

func NewSkillService(stores repository.Stores, tx repository.Transactor, logger zerolog.Logger) *SkillService {
	return &SkillService{
		stores: stores,
		tx:     tx,
		logger: logger.With().Str("component", "skills").Logger(),
	}
}

// CreateSkill lists a skill for the calling provider.
func (s *SkillService) CreateSkill(ctx context.Context, caller identity.Caller, input CreateSkillInput) (*models.Skill, error) {
	if !caller.IsProvider() {
		return nil, ErrProviderRoleRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	skill := &models.Skill{
		Experience:   strings.TrimSpace(input.Experience),
		NatureOfWork: input.NatureOfWork,
		HourlyRate:   input.HourlyRate,
		CategoryID:   input.CategoryID,
		ProviderID:   caller.ActorID,
	}

	err := s.tx.WithinTransaction(ctx, func(st repository.Stores) error {
		providerExists, err := st.Providers.Exists(ctx, repository.Where("id = ?", caller.ActorID))
		if err != nil {
			return storeError("check provider", err)
		}
		if !providerExists {
			return ErrProviderNotFound
		}

		category, err := lockCategory(ctx, st, input.CategoryID)
		if err != nil {
			return err
		}

		if err := st.Skills.Create(ctx, skill); err != nil {
			return storeError("create skill", err)
		}
		skill.Category = *category
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("skill_id", skill.ID).Str("provider_id", skill.ProviderID).Msg("skill created")
	return skill, nil
}

// ListSkills returns skills matching filter, newest first.
func (s *SkillService) ListSkills(ctx context.Context, filter SkillFilter) ([]models.Skill, error) {
	q := repository.Query{Order: "created_at DESC", Preload: []string{"Category"}}
	if filter.ProviderID != "" {
		q.Where = append(q.Where, repository.Where("provider_id = ?", filter.ProviderID))
	}
	if filter.CategoryID != "" {
		q.Where = append(q.Where, repository.Where("category_id = ?", filter.CategoryID))
	}

	skills, err := s.stores.Skills.Find(ctx, q)
	if err != nil {
		return nil, storeError("list skills", err)
	}
	return skills, nil
}

// GetSkill returns a skill with its category
func (s *SkillService) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	skill, err := s.stores.Skills.Get(ctx, id, "Category")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, storeError("find skill", err)
	}
	return skill, nil
}

// UpdateSkill changes a skill owned by the calling provider.
func (s *SkillService) UpdateSkill(ctx context.Context, caller identity.Caller, id string, input UpdateSkillInput) (*models.Skill, error) {
	if !caller.IsProvider() {
		return nil, ErrProviderRoleRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(st repository.Stores) error {
		if err := ownSkill(ctx, st, caller, id); err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if input.Experience != nil {
			fields["experience"] = strings.TrimSpace(*input.Experience)
		}
		if input.NatureOfWork != nil {
			fields["nature_of_work"] = *input.NatureOfWork
		}
		if input.HourlyRate != nil {
			fields["hourly_rate"] = *input.HourlyRate
		}
		if input.CategoryID != nil {
			if _, err := lockCategory(ctx, st, *input.CategoryID); err != nil {
				return err
			}
			fields["category_id"] = *input.CategoryID
		}
		if len(fields) == 0 {
			return nil
		}

		if _, err := st.Skills.Update(ctx, id, fields); err != nil {
			return storeError("update skill", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetSkill(ctx, id)
}

// DeleteSkill soft deletes a skill owned by the calling provider.
func (s *SkillService) DeleteSkill(ctx context.Context, caller identity.Caller, id string) error {
	if !caller.IsProvider() {
		return ErrProviderRoleRequired
	}

	err := s.tx.WithinTransaction(ctx, func(st repository.Stores) error {
		if err := ownSkill(ctx, st, caller, id); err != nil {
			return err
		}
		if _, err := st.Skills.Delete(ctx, id); err != nil {
			return storeError("delete skill", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("skill_id", id).Str("provider_id", caller.ActorID).Msg("skill deleted")
	return nil
}

// ownSkill locks the skill and checks the caller listed it.
func ownSkill(ctx context.Context, st repository.Stores, caller identity.Caller, id string) error {
	skill, err := st.Skills.Lock(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSkillNotFound
		}
		return storeError("lock skill", err)
	}
	if skill.ProviderID != caller.ActorID {
		return ErrNotSkillOwner
	}
	return nil
}
