package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
)

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	ExpectedStartDate time.Time        `json:"expected_start_date"`
	ExpectedHours     int              `json:"expected_hours"`
	HourlyRate        decimal.Decimal  `json:"hourly_rate"`
	Currency          models.Currency  `json:"currency"`
	Status            lifecycle.Status `json:"status"`
	OwnerID           string           `json:"owner_id"`
	CategoryID        string           `json:"category_id"`
	Category          *CategoryDTO     `json:"category,omitempty"`
	Owner             *UserDTO         `json:"owner,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// OfferDTO represents an offer in API responses
type OfferDTO struct {
	ID         string          `json:"id"`
	Rate       decimal.Decimal `json:"rate"`
	Message    string          `json:"message"`
	IsAccepted bool            `json:"is_accepted"`
	IsRejected bool            `json:"is_rejected"`
	TaskID     string          `json:"task_id"`
	ProviderID string          `json:"provider_id"`
	Provider   *ProviderDTO    `json:"provider,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProgressDTO represents a progress report in API responses
type ProgressDTO struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	TaskID      string    `json:"task_id"`
	ProviderID  string    `json:"provider_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conversion functions

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{ID: category.ID, Name: category.Name}
}

// ToCategoryDTOs converts a slice of Category models
func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		dtos[i] = ToCategoryDTO(category)
	}
	return dtos
}

// ToTaskDTO converts a Task model to TaskDTO. Relations are included when loaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                task.ID,
		Name:              task.Name,
		Description:       task.Description,
		ExpectedStartDate: task.ExpectedStartDate,
		ExpectedHours:     task.ExpectedHours,
		HourlyRate:        task.HourlyRate,
		Currency:          task.Currency,
		Status:            task.Status,
		OwnerID:           task.OwnerID,
		CategoryID:        task.CategoryID,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}

	if task.Category.ID != "" {
		category := ToCategoryDTO(task.Category)
		dto.Category = &category
	}
	if task.Owner.ID != "" {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return TaskListResponse{
		Tasks:      dtos,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToOfferDTO converts an Offer model to OfferDTO
func ToOfferDTO(offer models.Offer) OfferDTO {
	dto := OfferDTO{
		ID:         offer.ID,
		Rate:       offer.Rate,
		Message:    offer.Message,
		IsAccepted: offer.IsAccepted,
		IsRejected: offer.IsRejected,
		TaskID:     offer.TaskID,
		ProviderID: offer.ProviderID,
		CreatedAt:  offer.CreatedAt,
	}
	if offer.Provider.ID != "" {
		provider := ToProviderDTO(offer.Provider)
		dto.Provider = &provider
	}
	return dto
}

// ToOfferDTOs converts a slice of Offer models
func ToOfferDTOs(offers []models.Offer) []OfferDTO {
	dtos := make([]OfferDTO, len(offers))
	for i, offer := range offers {
		dtos[i] = ToOfferDTO(offer)
	}
	return dtos
}

// ToProgressDTO converts a Progress model to ProgressDTO
func ToProgressDTO(progress models.Progress) ProgressDTO {
	return ProgressDTO{
		ID:          progress.ID,
		Description: progress.Description,
		TaskID:      progress.TaskID,
		ProviderID:  progress.ProviderID,
		CreatedAt:   progress.CreatedAt,
	}
}

// ToProgressDTOs converts a slice of Progress models
func ToProgressDTOs(progress []models.Progress) []ProgressDTO {
	dtos := make([]ProgressDTO, len(progress))
	for i, p := range progress {
		dtos[i] = ToProgressDTO(p)
	}
	return dtos
}
