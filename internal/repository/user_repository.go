package repository

import (
	"context"

	"github.com/yukikurage/task-marketplace-api/internal/models"
)

// FindAccountByUsername finds an active account by username
func FindAccountByUsername(ctx context.Context, accounts AccountRepository, username string) (*models.Account, error) {
	return accounts.First(ctx, Query{Where: []Condition{
		Where("username = ?", username),
		Where("is_active = ?", true),
	}})
}

// FindUserByAccount finds the user profile belonging to an account
func FindUserByAccount(ctx context.Context, users UserRepository, accountID string) (*models.User, error) {
	return users.First(ctx, Query{Where: []Condition{Where("account_id = ?", accountID)}})
}

// FindProviderByAccount finds the provider profile belonging to an account
func FindProviderByAccount(ctx context.Context, providers ProviderRepository, accountID string) (*models.Provider, error) {
	return providers.First(ctx, Query{Where: []Condition{Where("account_id = ?", accountID)}})
}
