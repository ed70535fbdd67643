package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
	"github.com/yukikurage/task-marketplace-api/internal/services"
)

type OfferHandler struct {
	taskService *services.TaskService
}

func NewOfferHandler(taskService *services.TaskService) *OfferHandler {
	return &OfferHandler{taskService: taskService}
}

// SubmitOffer places a provider's offer on a task
func (h *OfferHandler) SubmitOffer(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SubmitOfferRequest struct {
		TaskID  string          `json:"task_id" binding:"required"`
		Rate    decimal.Decimal `json:"rate"`
		Message string          `json:"message"`
	}

	var req SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	offer, err := h.taskService.SubmitOffer(c.Request.Context(), caller, services.SubmitOfferInput{
		TaskID:  req.TaskID,
		Rate:    req.Rate,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOfferDTO(*offer))
}

// RespondToOffer accepts or rejects an offer on one of the caller's tasks
func (h *OfferHandler) RespondToOffer(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RespondRequest struct {
		OfferID string `json:"offer_id" binding:"required"`
		Accept  *bool  `json:"accept" binding:"required"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	offer, err := h.taskService.RespondToOffer(c.Request.Context(), caller, services.RespondToOfferInput{
		OfferID: req.OfferID,
		Accept:  *req.Accept,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOfferDTO(*offer))
}

// ListOffers returns the offers on a task to its owner
func (h *OfferHandler) ListOffers(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	offers, err := h.taskService.ListOffersForTask(c.Request.Context(), caller, middleware.GetTaskID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offers": dto.ToOfferDTOs(offers),
	})
}
