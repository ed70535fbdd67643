package repository

import (
	"context"

	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
)

// Condition is a single WHERE expression with its bind arguments.
type Condition struct {
	Expr string
	Args []interface{}
}

// Where builds a Condition, e.g. Where("task_id = ?", id).
func Where(expr string, args ...interface{}) Condition {
	return Condition{Expr: expr, Args: args}
}

// Query describes a read against a single table.
type Query struct {
	Where   []Condition
	Order   string
	Preload []string
	Page    *utils.PaginationParams
	// Lock takes row locks (SELECT ... FOR UPDATE) on the matched rows.
	Lock bool
}

// Repository is the data access contract shared by every entity.
// Lookups that miss return gorm.ErrRecordNotFound.
type Repository[T any] interface {
	// Get finds a record by primary key with optional preloading
	Get(ctx context.Context, id string, preload ...string) (*T, error)

	// Lock finds a record by primary key and holds a row lock on it until
	// the surrounding transaction ends
	Lock(ctx context.Context, id string) (*T, error)

	// First returns the first record matching the query
	First(ctx context.Context, q Query) (*T, error)

	// Find returns every record matching the query
	Find(ctx context.Context, q Query) ([]T, error)

	// Count counts records matching the query, ignoring order and paging
	Count(ctx context.Context, q Query) (int64, error)

	// Exists reports whether any record matches all conditions
	Exists(ctx context.Context, conds ...Condition) (bool, error)

	// Create inserts a record. Associations are not saved.
	Create(ctx context.Context, entity *T) error

	// Update sets fields on the record with the given id, only when every
	// guard also matches. It returns the number of rows changed.
	Update(ctx context.Context, id string, fields map[string]interface{}, guards ...Condition) (int64, error)

	// UpdateWhere sets fields on every record matching conds.
	UpdateWhere(ctx context.Context, conds []Condition, fields map[string]interface{}) (int64, error)

	// Delete deletes (soft deletes where supported) the record with the given id
	Delete(ctx context.Context, id string) (int64, error)
}

type (
	AccountRepository           = Repository[models.Account]
	AddressRepository           = Repository[models.Address]
	CategoryRepository          = Repository[models.Category]
	UserRepository              = Repository[models.User]
	ProviderRepository          = Repository[models.Provider]
	IndividualDetailsRepository = Repository[models.IndividualDetails]
	CompanyDetailsRepository    = Repository[models.CompanyDetails]
	TaskRepository              = Repository[models.Task]
	OfferRepository             = Repository[models.Offer]
	ProgressRepository          = Repository[models.Progress]
	SkillRepository             = Repository[models.Skill]
)

// Stores groups one repository per entity, all bound to the same connection
// or transaction.
type Stores struct {
	Accounts          AccountRepository
	Addresses         AddressRepository
	Categories        CategoryRepository
	Users             UserRepository
	Providers         ProviderRepository
	IndividualDetails IndividualDetailsRepository
	CompanyDetails    CompanyDetailsRepository
	Tasks             TaskRepository
	Offers            OfferRepository
	Progress          ProgressRepository
	Skills            SkillRepository
}

// Transactor runs fn against Stores bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when fn panics.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(Stores) error) error
}
