package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/task-marketplace-api/internal/cache"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService is the task lifecycle engine. It is the only writer of task
// status, offers and progress records.
type TaskService struct {
	stores    repository.Stores
	tx        repository.Transactor
	listCache cache.TaskListCache
	drafter   TaskDrafter
	logger    zerolog.Logger
}

// NewTaskService creates a new TaskService. listCache and drafter may be nil.
func NewTaskService(stores repository.Stores, tx repository.Transactor, listCache cache.TaskListCache, drafter TaskDrafter, logger zerolog.Logger) *TaskService {
	if listCache == nil {
		listCache = cache.Noop{}
	}
	return &TaskService{
		stores:    stores,
		tx:        tx,
		listCache: listCache,
		drafter:   drafter,
		logger:    logger.With().Str("component", "task_engine").Logger(),
	}
}

// transition is a committed status change, logged after commit.
type transition struct {
	taskID string
	from   lifecycle.Status
	to     lifecycle.Status
	event  lifecycle.Event
	actor  identity.Caller
}

// write runs fn in a transaction. fn must use the context it is given for
// every store call: it keeps the caller's deadline but not its cancellation,
// so a write that has started always finishes. If the caller went away
// meanwhile, its context error is returned instead.
func (s *TaskService) write(ctx context.Context, fn func(ctx context.Context, st repository.Stores) ([]transition, error)) error {
	txCtx, cancel := detach(ctx)
	defer cancel()

	var moved []transition
	err := s.tx.WithinTransaction(txCtx, func(st repository.Stores) error {
		var err error
		moved, err = fn(txCtx, st)
		return err
	})
	if err != nil {
		if IsDomainError(err) || errors.Is(err, ErrStore) {
			return err
		}
		return storeError("commit transaction", err)
	}

	for _, t := range moved {
		s.logger.Info().
			Str("task_id", t.taskID).
			Str("from", string(t.from)).
			Str("to", string(t.to)).
			Str("event", string(t.event)).
			Str("actor_id", t.actor.ActorID).
			Str("role", string(t.actor.Role)).
			Msg("task status changed")
	}

	if err := s.listCache.Invalidate(txCtx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate task list cache")
	}

	return ctx.Err()
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return detached, func() {}
}

// lockTask loads the task and holds its row lock for the rest of the
// transaction.
func lockTask(ctx context.Context, st repository.Stores, taskID string) (*models.Task, error) {
	task, err := st.Tasks.Lock(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError("lock task", err)
	}
	return task, nil
}

func nextStatus(task *models.Task, event lifecycle.Event, facts lifecycle.Facts) (lifecycle.Status, error) {
	to, err := lifecycle.Next(task.Status, event, facts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	return to, nil
}

// advance computes the next status for event and writes it with a
// compare-and-set on the current status. A self-loop writes nothing.
func advance(ctx context.Context, st repository.Stores, task *models.Task, event lifecycle.Event, facts lifecycle.Facts, actor identity.Caller) ([]transition, error) {
	to, err := nextStatus(task, event, facts)
	if err != nil {
		return nil, err
	}
	if to == task.Status {
		return nil, nil
	}

	ok, err := repository.SetTaskStatus(ctx, st.Tasks, task.ID, task.Status, to)
	if err != nil {
		return nil, storeError("update task status", err)
	}
	if !ok {
		return nil, ErrConcurrentUpdate
	}

	moved := transition{taskID: task.ID, from: task.Status, to: to, event: event, actor: actor}
	task.Status = to
	return []transition{moved}, nil
}
