package repository

import (
	"context"

	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status     *lifecycle.Status
	CategoryID *string
	OwnerID    *string
	Page       utils.PaginationParams
}

// Query converts the filter into a task query ordered by expected start date,
// newest first.
func (f TaskFilter) Query() Query {
	q := Query{
		Order:   "expected_start_date DESC, created_at DESC",
		Preload: []string{"Category"},
		Page:    &f.Page,
	}
	if f.Status != nil {
		q.Where = append(q.Where, Where("status = ?", *f.Status))
	}
	if f.CategoryID != nil {
		q.Where = append(q.Where, Where("category_id = ?", *f.CategoryID))
	}
	if f.OwnerID != nil {
		q.Where = append(q.Where, Where("owner_id = ?", *f.OwnerID))
	}
	return q
}

// ListTasks returns one page of tasks matching the filter and the total count.
func ListTasks(ctx context.Context, tasks TaskRepository, filter TaskFilter) ([]models.Task, int64, error) {
	q := filter.Query()

	total, err := tasks.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	items, err := tasks.Find(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// SetTaskStatus moves a task from one status to another only if it is still
// in from. It returns false when another writer changed the status first.
func SetTaskStatus(ctx context.Context, tasks TaskRepository, taskID string, from, to lifecycle.Status) (bool, error) {
	affected, err := tasks.Update(ctx, taskID,
		map[string]interface{}{"status": to},
		Where("status = ?", from),
	)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
