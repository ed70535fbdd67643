package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// AddProgressInput represents a work report on a task
type AddProgressInput struct {
	TaskID      string
	Description string
}

// RespondToCompletionInput represents the owner's verdict on finished work
type RespondToCompletionInput struct {
	TaskID string
	Accept bool
}

// AddProgress appends a progress report from the assigned provider and moves
// the task to in_progress.
func (s *TaskService) AddProgress(ctx context.Context, caller identity.Caller, input AddProgressInput) (*models.Progress, error) {
	progress := &models.Progress{
		Description: strings.TrimSpace(input.Description),
		TaskID:      input.TaskID,
		ProviderID:  caller.ActorID,
	}

	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		task, err := lockTask(ctx, st, input.TaskID)
		if err != nil {
			return nil, err
		}
		if err := authorize(ctx, st.Offers, caller, task, assignedProviderOf); err != nil {
			return nil, err
		}
		if progress.Description == "" {
			return nil, ErrDescriptionRequired
		}

		moved, err := advance(ctx, st, task, lifecycle.EventProgressAdded, lifecycle.Facts{}, caller)
		if err != nil {
			return nil, err
		}

		if err := st.Progress.Create(ctx, progress); err != nil {
			return nil, storeError("create progress", err)
		}
		return moved, nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// MarkCompleted reports the work as finished. Repeating it on a task already
// marked completed changes nothing.
func (s *TaskService) MarkCompleted(ctx context.Context, caller identity.Caller, taskID string) (*models.Task, error) {
	var task *models.Task
	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		var err error
		task, err = lockTask(ctx, st, taskID)
		if err != nil {
			return nil, err
		}
		if err := authorize(ctx, st.Offers, caller, task, assignedProviderOf); err != nil {
			return nil, err
		}
		return advance(ctx, st, task, lifecycle.EventCompletionMarked, lifecycle.Facts{}, caller)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// HandleCompletion lets the owner accept or reject work the provider marked
// as completed. Ownership is checked before status.
func (s *TaskService) HandleCompletion(ctx context.Context, caller identity.Caller, input RespondToCompletionInput) (*models.Task, error) {
	event := lifecycle.EventCompletionRejected
	if input.Accept {
		event = lifecycle.EventCompletionAccepted
	}

	var task *models.Task
	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		var err error
		task, err = lockTask(ctx, st, input.TaskID)
		if err != nil {
			return nil, err
		}
		if err := authorize(ctx, st.Offers, caller, task, ownerOf); err != nil {
			return nil, err
		}
		return advance(ctx, st, task, event, lifecycle.Facts{}, caller)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListProgress returns a task's progress reports, oldest first. Only the owner
// and the assigned provider may read them.
func (s *TaskService) ListProgress(ctx context.Context, caller identity.Caller, taskID string) ([]models.Progress, error) {
	task, err := s.stores.Tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError("find task", err)
	}

	if err := authorize(ctx, s.stores.Offers, caller, task, ownerOf); err != nil {
		if err := authorize(ctx, s.stores.Offers, caller, task, assignedProviderOf); err != nil {
			return nil, err
		}
	}

	progress, err := s.stores.Progress.Find(ctx, repository.Query{
		Where: []repository.Condition{repository.Where("task_id = ?", taskID)},
		Order: "created_at ASC",
	})
	if err != nil {
		return nil, storeError("list progress", err)
	}
	return progress, nil
}
