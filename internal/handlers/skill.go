package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/services"
)

type SkillHandler struct {
	skills *services.SkillService
}

func NewSkillHandler(skills *services.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// ListSkills returns advertised skills. Filters: provider_id, category_id.
func (h *SkillHandler) ListSkills(c *gin.Context) {
	skills, err := h.skills.ListSkills(c.Request.Context(), services.SkillFilter{
		ProviderID: c.Query("provider_id"),
		CategoryID: c.Query("category_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"skills": dto.ToSkillDTOs(skills),
	})
}

// GetSkill returns a specific skill by ID
func (h *SkillHandler) GetSkill(c *gin.Context) {
	skill, err := h.skills.GetSkill(c.Request.Context(), middleware.GetID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSkillDTO(*skill))
}

// CreateSkill lists a skill for the calling provider
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateSkillRequest struct {
		Experience   string          `json:"experience" binding:"required"`
		NatureOfWork string          `json:"nature_of_work" binding:"required"`
		HourlyRate   decimal.Decimal `json:"hourly_rate"`
		CategoryID   string          `json:"category_id" binding:"required"`
	}

	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	skill, err := h.skills.CreateSkill(c.Request.Context(), caller, services.CreateSkillInput{
		Experience:   req.Experience,
		NatureOfWork: models.NatureOfWork(req.NatureOfWork),
		HourlyRate:   req.HourlyRate,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSkillDTO(*skill))
}

// UpdateSkill changes the fields present in the request body
func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateSkillRequest struct {
		Experience   *string              `json:"experience"`
		NatureOfWork *models.NatureOfWork `json:"nature_of_work"`
		HourlyRate   *decimal.Decimal     `json:"hourly_rate"`
		CategoryID   *string              `json:"category_id"`
	}

	var req UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	skill, err := h.skills.UpdateSkill(c.Request.Context(), caller, middleware.GetID(c), services.UpdateSkillInput{
		Experience:   req.Experience,
		NatureOfWork: req.NatureOfWork,
		HourlyRate:   req.HourlyRate,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSkillDTO(*skill))
}

// DeleteSkill removes a skill listed by the calling provider
func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.skills.DeleteSkill(c.Request.Context(), caller, middleware.GetID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
