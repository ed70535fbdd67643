package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
	"github.com/yukikurage/task-marketplace-api/internal/services"
)

type ProgressHandler struct {
	taskService *services.TaskService
}

func NewProgressHandler(taskService *services.TaskService) *ProgressHandler {
	return &ProgressHandler{taskService: taskService}
}

// AddProgress records work on a task by its assigned provider
func (h *ProgressHandler) AddProgress(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AddProgressRequest struct {
		TaskID      string `json:"task_id" binding:"required"`
		Description string `json:"description"`
	}

	var req AddProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	progress, err := h.taskService.AddProgress(c.Request.Context(), caller, services.AddProgressInput{
		TaskID:      req.TaskID,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProgressDTO(*progress))
}

// MarkCompleted declares the work done
func (h *ProgressHandler) MarkCompleted(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type MarkCompletedRequest struct {
		TaskID string `json:"task_id" binding:"required"`
	}

	var req MarkCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.MarkCompleted(c.Request.Context(), caller, req.TaskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// RespondToCompletion lets the owner accept or reject completed work
func (h *ProgressHandler) RespondToCompletion(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RespondRequest struct {
		TaskID string `json:"task_id" binding:"required"`
		Accept *bool  `json:"accept" binding:"required"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.HandleCompletion(c.Request.Context(), caller, services.RespondToCompletionInput{
		TaskID: req.TaskID,
		Accept: *req.Accept,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListProgress returns a task's progress reports, oldest first
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	progress, err := h.taskService.ListProgress(c.Request.Context(), caller, middleware.GetTaskID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": dto.ToProgressDTOs(progress),
	})
}
