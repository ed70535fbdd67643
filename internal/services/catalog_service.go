package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/task-marketplace-api/internal/cache"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// CatalogService manages task categories.
type CatalogService struct {
	stores    repository.Stores
	tx        repository.Transactor
	listCache cache.TaskListCache
	logger    zerolog.Logger
}

// NewCatalogService creates a new CatalogService. Task list pages embed
// category names, so renames invalidate listCache; it may be nil.
func NewCatalogService(stores repository.Stores, tx repository.Transactor, listCache cache.TaskListCache, logger zerolog.Logger) *CatalogService {
	if listCache == nil {
		listCache = cache.Noop{}
	}
	return &CatalogService{
		stores:    stores,
		tx:        tx,
		listCache: listCache,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	exists, err := s.stores.Categories.Exists(ctx, repository.Where("LOWER(name) = ?", strings.ToLower(name)))
	if err != nil {
		return nil, storeError("check category", err)
	}
	if exists {
		return nil, ErrCategoryExists
	}

	// The unique index also catches names held by deleted categories.
	category := &models.Category{Name: name}
	if err := s.stores.Categories.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, storeError("create category", err)
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.stores.Categories.Find(ctx, repository.Query{Order: "name ASC"})
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.stores.Categories.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storeError("find category", err)
	}
	return category, nil
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	var category *models.Category
	err = s.tx.WithinTransaction(ctx, func(st repository.Stores) error {
		var err error
		category, err = lockCategory(ctx, st, id)
		if err != nil {
			return err
		}

		taken, err := st.Categories.Exists(ctx,
			repository.Where("LOWER(name) = ?", strings.ToLower(name)),
			repository.Where("id <> ?", id),
		)
		if err != nil {
			return storeError("check category", err)
		}
		if taken {
			return ErrCategoryExists
		}

		if _, err := st.Categories.Update(ctx, id, map[string]interface{}{"name": name}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCategoryExists
			}
			return storeError("update category", err)
		}
		category.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTaskLists(ctx)
	return category, nil
}

// DeleteCategory soft deletes a category no task or skill refers to.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(st repository.Stores) error {
		if _, err := lockCategory(ctx, st, id); err != nil {
			return err
		}

		byCategory := repository.Where("category_id = ?", id)
		inUse, err := st.Tasks.Exists(ctx, byCategory)
		if err != nil {
			return storeError("check category tasks", err)
		}
		if !inUse {
			inUse, err = st.Skills.Exists(ctx, byCategory)
			if err != nil {
				return storeError("check category skills", err)
			}
		}
		if inUse {
			return ErrCategoryInUse
		}

		if _, err := st.Categories.Delete(ctx, id); err != nil {
			return storeError("delete category", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("category_id", id).Msg("category deleted")
	return nil
}

func (s *CatalogService) invalidateTaskLists(ctx context.Context) {
	if err := s.listCache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate task list cache")
	}
}

// lockCategory loads the category and holds its row lock for the rest of
// the transaction. Writers that attach records to a category take the same
// lock, so a category cannot be deleted while a task or skill is added to it.
func lockCategory(ctx context.Context, st repository.Stores, id string) (*models.Category, error) {
	category, err := st.Categories.Lock(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storeError("lock category", err)
	}
	return category, nil
}
