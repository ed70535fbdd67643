package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/services"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func listInput(c *gin.Context) services.ListTasksInput {
	return services.ListTasksInput{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Page:       utils.GetPaginationParams(c),
	}
}

// ListTasks returns open marketplace tasks, newest start date first.
// Filters: status (or ALL), category_id.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := listInput(c)

	page, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page.Tasks, input.Page, page.Total))
}

// ListMyTasks returns the tasks owned by the calling user
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := listInput(c)
	page, err := h.taskService.ListMyTasks(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page.Tasks, input.Page, page.Total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetTaskID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask posts a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Name              string          `json:"name"`
		Description       string          `json:"description"`
		ExpectedStartDate time.Time       `json:"expected_start_date"`
		ExpectedHours     int             `json:"expected_hours"`
		HourlyRate        decimal.Decimal `json:"hourly_rate"`
		Currency          string          `json:"currency"`
		CategoryID        string          `json:"category_id" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, services.CreateTaskInput{
		Name:              req.Name,
		Description:       req.Description,
		ExpectedStartDate: req.ExpectedStartDate,
		ExpectedHours:     req.ExpectedHours,
		HourlyRate:        req.HourlyRate,
		Currency:          models.Currency(req.Currency),
		CategoryID:        req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// CancelTask cancels a task on behalf of its owner or its assigned provider
func (h *TaskHandler) CancelTask(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.CancelTask(c.Request.Context(), caller, middleware.GetTaskID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DraftTasks uses AI to propose tasks from free text. Nothing is saved.
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	type DraftTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}
