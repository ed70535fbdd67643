package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-marketplace-api/internal/database"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// serviceSuite sets up an in-memory database and the services under test.
type serviceSuite struct {
	suite.Suite
	db      *gorm.DB
	ctx     context.Context
	stores  repository.Stores
	tasks   *TaskService
	auth    *AuthService
	catalog *CatalogService
	skills  *SkillService
	tokens  *identity.TokenIssuer
}

func (s *serviceSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(database.MigrateDatabase(s.db))

	s.ctx = context.Background()
	s.stores = repository.NewStores(s.db)
	tx := repository.NewTransactor(s.db)

	s.tokens, err = identity.NewTokenIssuer(identity.Config{Secret: "test-secret-0123456789", TTL: time.Hour})
	s.Require().NoError(err)

	s.tasks = NewTaskService(s.stores, tx, nil, nil, zerolog.Nop())
	s.auth = NewAuthService(s.stores, tx, s.tokens, zerolog.Nop())
	s.catalog = NewCatalogService(s.stores, tx, nil, zerolog.Nop())
	s.skills = NewSkillService(s.stores, tx, zerolog.Nop())
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) createUser(username string) identity.Caller {
	account := &models.Account{Username: username, PasswordHash: "x", Role: models.RoleUser, IsActive: true}
	s.Require().NoError(s.stores.Accounts.Create(s.ctx, account))
	user := &models.User{AccountID: account.ID, FirstName: username, LastName: "Test", Email: username + "@example.com"}
	s.Require().NoError(s.stores.Users.Create(s.ctx, user))
	return identity.Caller{ActorID: user.ID, Role: models.RoleUser}
}

func (s *serviceSuite) createProvider(username string) identity.Caller {
	account := &models.Account{Username: username, PasswordHash: "x", Role: models.RoleProviderIndividual, IsActive: true}
	s.Require().NoError(s.stores.Accounts.Create(s.ctx, account))
	provider := &models.Provider{AccountID: account.ID, ProviderType: models.ProviderTypeIndividual, Email: username + "@example.com"}
	s.Require().NoError(s.stores.Providers.Create(s.ctx, provider))
	details := &models.IndividualDetails{ProviderID: provider.ID, FirstName: username, LastName: "Pro"}
	s.Require().NoError(s.stores.IndividualDetails.Create(s.ctx, details))
	return identity.Caller{ActorID: provider.ID, Role: models.RoleProviderIndividual}
}

func (s *serviceSuite) createCategory(name string) *models.Category {
	category, err := s.catalog.CreateCategory(s.ctx, name)
	s.Require().NoError(err)
	return category
}

func (s *serviceSuite) createTask(owner identity.Caller, categoryID string) *models.Task {
	task, err := s.tasks.CreateTask(s.ctx, owner, CreateTaskInput{
		Name:              "Fix the garden fence",
		Description:       "Two broken panels",
		ExpectedStartDate: time.Now().Add(48 * time.Hour),
		ExpectedHours:     6,
		HourlyRate:        decimal.NewFromInt(40),
		Currency:          models.CurrencyAUD,
		CategoryID:        categoryID,
	})
	s.Require().NoError(err)
	return task
}

func (s *serviceSuite) submitOffer(provider identity.Caller, taskID string, rate int64) *models.Offer {
	offer, err := s.tasks.SubmitOffer(s.ctx, provider, SubmitOfferInput{
		TaskID:  taskID,
		Rate:    decimal.NewFromInt(rate),
		Message: "Can start on Monday",
	})
	s.Require().NoError(err)
	return offer
}

func (s *serviceSuite) reloadTask(id string) *models.Task {
	task, err := s.stores.Tasks.Get(s.ctx, id)
	s.Require().NoError(err)
	return task
}

func (s *serviceSuite) reloadOffer(id string) *models.Offer {
	offer, err := s.stores.Offers.Get(s.ctx, id)
	s.Require().NoError(err)
	return offer
}

func (s *serviceSuite) countRows(model interface{}) int64 {
	var count int64
	s.Require().NoError(s.db.Model(model).Count(&count).Error)
	return count
}
