package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
	"gorm.io/gorm"
)

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name              string
	Description       string
	ExpectedStartDate time.Time
	ExpectedHours     int
	HourlyRate        decimal.Decimal
	Currency          models.Currency
	CategoryID        string
}

// ListTasksInput represents filters for listing tasks. Status is the raw
// filter value; empty or "ALL" disables the status filter.
type ListTasksInput struct {
	Status     string
	CategoryID string
	Page       utils.PaginationParams
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks []models.Task `json:"tasks"`
	Total int64         `json:"total"`
}

func (in CreateTaskInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.ExpectedStartDate.IsZero() {
		return ErrStartDateRequired
	}
	if in.ExpectedHours <= 0 {
		return ErrInvalidHours
	}
	if in.HourlyRate.IsNegative() {
		return ErrNegativeRate
	}
	if !in.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

// CreateTask posts a new task owned by the calling user.
func (s *TaskService) CreateTask(ctx context.Context, caller identity.Caller, input CreateTaskInput) (*models.Task, error) {
	if !caller.IsUser() {
		return nil, ErrUserRoleRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		ExpectedStartDate: input.ExpectedStartDate,
		ExpectedHours:     input.ExpectedHours,
		HourlyRate:        input.HourlyRate,
		Currency:          input.Currency,
		Status:            lifecycle.StatusCreated,
		OwnerID:           caller.ActorID,
		CategoryID:        input.CategoryID,
	}

	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		userExists, err := st.Users.Exists(ctx, repository.Where("id = ?", caller.ActorID))
		if err != nil {
			return nil, storeError("check user", err)
		}
		if !userExists {
			return nil, ErrUserNotFound
		}

		if _, err := lockCategory(ctx, st, input.CategoryID); err != nil {
			return nil, err
		}

		if err := st.Tasks.Create(ctx, task); err != nil {
			return nil, storeError("create task", err)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("owner_id", task.OwnerID).Msg("task created")
	return task, nil
}

// GetTask returns a task with its category and owner
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.stores.Tasks.Get(ctx, taskID, "Category", "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError("find task", err)
	}
	return task, nil
}

// ListTasks returns the public task listing, newest expected start first.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) (*TaskPage, error) {
	filter, err := taskFilter(input)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("status=%s&category=%s&page=%d&limit=%d",
		input.Status, input.CategoryID, input.Page.Page, input.Page.Limit)

	var cached TaskPage
	slot, hit, err := s.listCache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read task list cache")
	}
	if hit {
		return &cached, nil
	}

	page, err := s.listTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.listCache.Set(ctx, slot, page); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write task list cache")
	}
	return page, nil
}

// ListMyTasks lists the tasks the calling user owns.
func (s *TaskService) ListMyTasks(ctx context.Context, caller identity.Caller, input ListTasksInput) (*TaskPage, error) {
	if !caller.IsUser() {
		return nil, ErrUserRoleRequired
	}

	filter, err := taskFilter(input)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = &caller.ActorID

	return s.listTasks(ctx, filter)
}

func (s *TaskService) listTasks(ctx context.Context, filter repository.TaskFilter) (*TaskPage, error) {
	tasks, total, err := repository.ListTasks(ctx, s.stores.Tasks, filter)
	if err != nil {
		return nil, storeError("list tasks", err)
	}
	return &TaskPage{Tasks: tasks, Total: total}, nil
}

func taskFilter(input ListTasksInput) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{Page: input.Page}
	if filter.Page.Limit == 0 {
		filter.Page = utils.NewPaginationParams(filter.Page.Page, filter.Page.Limit)
	}

	status, unfiltered, err := lifecycle.ParseStatus(input.Status)
	if err != nil {
		return filter, invalidf("unknown task status %q", input.Status)
	}
	if !unfiltered {
		filter.Status = &status
	}
	if input.CategoryID != "" {
		filter.CategoryID = &input.CategoryID
	}
	return filter, nil
}

// CancelTask withdraws a task. The owner may cancel before an offer is
// accepted; the assigned provider may back out before any work is reported.
func (s *TaskService) CancelTask(ctx context.Context, caller identity.Caller, taskID string) (*models.Task, error) {
	var task *models.Task
	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		var err error
		task, err = lockTask(ctx, st, taskID)
		if err != nil {
			return nil, err
		}

		if authorize(ctx, st.Offers, caller, task, ownerOf) == nil {
			moved, err := advance(ctx, st, task, lifecycle.EventCancelledByUser, lifecycle.Facts{}, caller)
			if err != nil {
				return nil, err
			}
			if _, err := repository.RejectPendingOffers(ctx, st.Offers, task.ID); err != nil {
				return nil, storeError("reject pending offers", err)
			}
			return moved, nil
		}

		if err := authorize(ctx, st.Offers, caller, task, assignedProviderOf); err != nil {
			if errors.Is(err, ErrStore) {
				return nil, err
			}
			return nil, ErrCancelNotAllowed
		}
		return advance(ctx, st, task, lifecycle.EventCancelledByProvider, lifecycle.Facts{}, caller)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
