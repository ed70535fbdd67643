package repository

import (
	"context"
	"database/sql"

	"github.com/yukikurage/task-marketplace-api/internal/models"
	"gorm.io/gorm"
)

// NewStores binds one repository per entity to db.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Accounts:          NewRepository[models.Account](db),
		Addresses:         NewRepository[models.Address](db),
		Categories:        NewRepository[models.Category](db),
		Users:             NewRepository[models.User](db),
		Providers:         NewRepository[models.Provider](db),
		IndividualDetails: NewRepository[models.IndividualDetails](db),
		CompanyDetails:    NewRepository[models.CompanyDetails](db),
		Tasks:             NewRepository[models.Task](db),
		Offers:            NewRepository[models.Offer](db),
		Progress:          NewRepository[models.Progress](db),
		Skills:            NewRepository[models.Skill](db),
	}
}

// GormTransactor is a GORM implementation of Transactor
type GormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a new Transactor
func NewTransactor(db *gorm.DB) Transactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn at READ COMMITTED. Reads made after a row lock is
// taken must see rows committed by the previous lock holder, which MySQL's
// default REPEATABLE READ snapshot would hide.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}
