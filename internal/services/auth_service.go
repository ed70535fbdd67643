package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles account registration and login.
type AuthService struct {
	stores repository.Stores
	tx     repository.Transactor
	tokens *identity.TokenIssuer
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(stores repository.Stores, tx repository.Transactor, tokens *identity.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		stores: stores,
		tx:     tx,
		tokens: tokens,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// AddressInput is a postal address supplied at signup.
type AddressInput struct {
	StreetNo   string
	StreetName string
	City       string
	State      string
	PostCode   string
}

// CredentialsInput holds the username and password of a new account.
type CredentialsInput struct {
	Username string
	Password string
}

// RegisterUserInput represents the required information to create a task owner.
type RegisterUserInput struct {
	CredentialsInput
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Address   *AddressInput
}

// IndividualInput holds the details of an individual provider.
type IndividualInput struct {
	FirstName string
	LastName  string
}

// CompanyInput holds the details of a company provider.
type CompanyInput struct {
	CompanyName   string
	BusinessTaxNo string
	RepFirstName  string
	RepLastName   string
}

// RegisterProviderInput represents the required information to create a provider.
// Exactly one of Individual and Company must be set, matching ProviderType.
type RegisterProviderInput struct {
	CredentialsInput
	ProviderType models.ProviderType
	Email        string
	Mobile       string
	Address      *AddressInput
	Individual   *IndividualInput
	Company      *CompanyInput
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the identity token issued on login.
type LoginResult struct {
	Token  string
	Caller identity.Caller
}

// Profile is the resolved account behind a caller.
type Profile struct {
	Caller   identity.Caller
	User     *models.User
	Provider *models.Provider
}

func (in CredentialsInput) validate() error {
	if len(strings.TrimSpace(in.Username)) < constants.MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(in.Password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// RegisterUser creates an account and a user profile in one transaction.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}

	user := &models.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Mobile:    strings.TrimSpace(input.Mobile),
	}

	err := s.register(ctx, input.CredentialsInput, models.RoleUser, input.Address, func(st repository.Stores, account *models.Account, address *models.Address) error {
		user.AccountID = account.ID
		if address != nil {
			user.AddressID = &address.ID
			user.Address = address
		}
		if err := st.Users.Create(ctx, user); err != nil {
			return storeError("create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// RegisterProvider creates an account, a provider profile and its
// individual or company details in one transaction.
func (s *AuthService) RegisterProvider(ctx context.Context, input RegisterProviderInput) (*models.Provider, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}
	switch input.ProviderType {
	case models.ProviderTypeIndividual:
		if input.Individual == nil || input.Company != nil {
			return nil, ErrProviderDetails
		}
	case models.ProviderTypeCompany:
		if input.Company == nil || input.Individual != nil {
			return nil, ErrProviderDetails
		}
	default:
		return nil, ErrInvalidProviderType
	}

	provider := &models.Provider{
		ProviderType: input.ProviderType,
		Email:        strings.TrimSpace(input.Email),
		Mobile:       strings.TrimSpace(input.Mobile),
	}

	err := s.register(ctx, input.CredentialsInput, input.ProviderType.Role(), input.Address, func(st repository.Stores, account *models.Account, address *models.Address) error {
		provider.AccountID = account.ID
		if address != nil {
			provider.AddressID = &address.ID
			provider.Address = address
		}
		if err := st.Providers.Create(ctx, provider); err != nil {
			return storeError("create provider", err)
		}

		if input.Individual != nil {
			details := &models.IndividualDetails{
				ProviderID: provider.ID,
				FirstName:  strings.TrimSpace(input.Individual.FirstName),
				LastName:   strings.TrimSpace(input.Individual.LastName),
			}
			if err := st.IndividualDetails.Create(ctx, details); err != nil {
				return storeError("create individual details", err)
			}
			provider.IndividualDetails = details
		}
		if input.Company != nil {
			details := &models.CompanyDetails{
				ProviderID:    provider.ID,
				CompanyName:   strings.TrimSpace(input.Company.CompanyName),
				BusinessTaxNo: strings.TrimSpace(input.Company.BusinessTaxNo),
				RepFirstName:  strings.TrimSpace(input.Company.RepFirstName),
				RepLastName:   strings.TrimSpace(input.Company.RepLastName),
			}
			if err := st.CompanyDetails.Create(ctx, details); err != nil {
				return storeError("create company details", err)
			}
			provider.CompanyDetails = details
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("provider_id", provider.ID).Str("provider_type", string(provider.ProviderType)).Msg("provider registered")
	return provider, nil
}

// register creates the account and optional address, then hands them to
// createProfile inside the same transaction.
func (s *AuthService) register(ctx context.Context, creds CredentialsInput, role models.Role, addr *AddressInput, createProfile func(repository.Stores, *models.Account, *models.Address) error) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return storeError("hash password", err)
	}

	account := &models.Account{
		Username:     strings.TrimSpace(creds.Username),
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     true,
	}

	return s.tx.WithinTransaction(ctx, func(st repository.Stores) error {
		taken, err := st.Accounts.Exists(ctx, repository.Where("username = ?", account.Username))
		if err != nil {
			return storeError("check username", err)
		}
		if taken {
			return ErrUsernameTaken
		}

		// The unique index also covers deleted accounts and concurrent
		// signups that passed the check above.
		if err := st.Accounts.Create(ctx, account); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return storeError("create account", err)
		}

		var address *models.Address
		if addr != nil {
			address = &models.Address{
				StreetNo:   strings.TrimSpace(addr.StreetNo),
				StreetName: strings.TrimSpace(addr.StreetName),
				City:       strings.TrimSpace(addr.City),
				State:      strings.TrimSpace(addr.State),
				PostCode:   strings.TrimSpace(addr.PostCode),
			}
			if err := st.Addresses.Create(ctx, address); err != nil {
				return storeError("create address", err)
			}
		}

		return createProfile(st, account, address)
	})
}

// Login verifies credentials and issues an identity token for the account's profile.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	account, err := repository.FindAccountByUsername(ctx, s.stores.Accounts, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("find account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	actorID, err := s.actorID(ctx, account)
	if err != nil {
		return nil, err
	}

	caller := identity.Caller{ActorID: actorID, Role: account.Role}
	token, err := s.tokens.Issue(caller)
	if err != nil {
		return nil, storeError("issue token", err)
	}

	return &LoginResult{Token: token, Caller: caller}, nil
}

func (s *AuthService) actorID(ctx context.Context, account *models.Account) (string, error) {
	if account.Role.IsProvider() {
		provider, err := repository.FindProviderByAccount(ctx, s.stores.Providers, account.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrProviderNotFound
			}
			return "", storeError("find provider", err)
		}
		return provider.ID, nil
	}

	user, err := repository.FindUserByAccount(ctx, s.stores.Users, account.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", storeError("find user", err)
	}
	return user.ID, nil
}

// Me returns the profile behind a resolved caller.
func (s *AuthService) Me(ctx context.Context, caller identity.Caller) (*Profile, error) {
	profile := &Profile{Caller: caller}

	if caller.IsProvider() {
		provider, err := s.stores.Providers.Get(ctx, caller.ActorID, "Address", "IndividualDetails", "CompanyDetails")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProviderNotFound
			}
			return nil, storeError("find provider", err)
		}
		profile.Provider = provider
		return profile, nil
	}

	user, err := s.stores.Users.Get(ctx, caller.ActorID, "Address")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("find user", err)
	}
	profile.User = user
	return profile, nil
}
