package repository

import (
	"context"

	"github.com/yukikurage/task-marketplace-api/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository is a GORM implementation of Repository
type GormRepository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a new Repository for T
func NewRepository[T any](db *gorm.DB) Repository[T] {
	return &GormRepository[T]{db: db}
}

func (r *GormRepository[T]) Get(ctx context.Context, id string, preload ...string) (*T, error) {
	return r.First(ctx, Query{Where: []Condition{Where("id = ?", id)}, Preload: preload})
}

func (r *GormRepository[T]) Lock(ctx context.Context, id string) (*T, error) {
	return r.First(ctx, Query{Where: []Condition{Where("id = ?", id)}, Lock: true})
}

func (r *GormRepository[T]) First(ctx context.Context, q Query) (*T, error) {
	var entity T
	if err := r.query(ctx, q).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *GormRepository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	entities := []T{}
	query := r.query(ctx, q)
	if q.Page != nil {
		query = query.Scopes(database.Paginate(*q.Page))
	}
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *GormRepository[T]) Count(ctx context.Context, q Query) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(new(T))
	for _, c := range q.Where {
		query = query.Where(c.Expr, c.Args...)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepository[T]) Exists(ctx context.Context, conds ...Condition) (bool, error) {
	count, err := r.Count(ctx, Query{Where: conds})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

func (r *GormRepository[T]) Update(ctx context.Context, id string, fields map[string]interface{}, guards ...Condition) (int64, error) {
	return r.UpdateWhere(ctx, append([]Condition{Where("id = ?", id)}, guards...), fields)
}

func (r *GormRepository[T]) UpdateWhere(ctx context.Context, conds []Condition, fields map[string]interface{}) (int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	for _, c := range conds {
		query = query.Where(c.Expr, c.Args...)
	}
	result := query.Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *GormRepository[T]) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *GormRepository[T]) query(ctx context.Context, q Query) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, p := range q.Preload {
		query = query.Preload(p)
	}
	for _, c := range q.Where {
		query = query.Where(c.Expr, c.Args...)
	}
	if q.Order != "" {
		query = query.Order(q.Order)
	}
	if q.Lock {
		query = query.Scopes(database.ForUpdate)
	}
	return query
}
