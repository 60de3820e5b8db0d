package usecase

import (
	"context"
	"errors"
	"strings"

	"quickfix/internal/domain/entities"
	"quickfix/internal/infrastructure/auth"
	"quickfix/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidRegistration = errors.New("invalid registration input")
	ErrWeakPassword        = errors.New("password too short")
	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

const minPasswordLen = 6

// RegisterInput carries everything the registration form collects.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Vehicle  string
}

// AuthResult is a freshly opened session: the bearer token plus the resolved
// customer profile.
type AuthResult struct {
	Token    string
	Customer entities.Customer
}

// IAccountUseCase exposes registration, login and logout.
//
// Registration creates the account and the customer profile under the same
// id, so the identity resolver can always map principal -> profile by key.
type IAccountUseCase interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type AccountUseCase struct {
	accounts  interfaces.IAccountRepository
	customers interfaces.ICustomerRepository
	sessions  interfaces.ISessionStore
	tokens    interfaces.ITokenIssuer
	log       zerolog.Logger
}

var _ IAccountUseCase = (*AccountUseCase)(nil)

func NewAccountUseCase(
	accounts interfaces.IAccountRepository,
	customers interfaces.ICustomerRepository,
	sessions interfaces.ISessionStore,
	tokens interfaces.ITokenIssuer,
	log zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{accounts: accounts, customers: customers, sessions: sessions, tokens: tokens, log: log}
}

func (u *AccountUseCase) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	vehicle := strings.TrimSpace(in.Vehicle)

	if email == "" || name == "" || phone == "" || vehicle == "" {
		return AuthResult{}, ErrInvalidRegistration
	}
	if len(in.Password) < minPasswordLen {
		return AuthResult{}, ErrWeakPassword
	}

	if existing, err := u.accounts.GetByEmail(ctx, email); err != nil {
		return AuthResult{}, err
	} else if existing.ID != "" {
		return AuthResult{}, ErrEmailInUse
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	principalID := uuid.NewString()
	if _, err := u.accounts.Create(ctx, entities.Account{ID: principalID, Email: email, PasswordHash: hash}); err != nil {
		// The pre-check above runs against an eventually consistent GSI; a
		// concurrent registration can slip past it and lose at write time.
		if errors.Is(err, interfaces.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailInUse
		}
		return AuthResult{}, err
	}

	// Profile id equals the principal id; identity resolution is a key get.
	customer, err := u.customers.Create(ctx, entities.Customer{
		ID:      principalID,
		Name:    name,
		Phone:   phone,
		Vehicle: vehicle,
	})
	if err != nil {
		return AuthResult{}, err
	}

	result, err := u.openSession(ctx, principalID, customer)
	if err != nil {
		return AuthResult{}, err
	}
	u.log.Info().Str("principal_id", principalID).Msg("customer registered")
	return result, nil
}

func (u *AccountUseCase) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	account, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if account.ID == "" || !auth.CheckPassword(account.PasswordHash, password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	customer, err := u.customers.GetByID(ctx, account.ID)
	if err != nil {
		return AuthResult{}, err
	}
	// A missing profile is resolved lazily by the identity use case on the
	// first authenticated request; logging in still succeeds.

	return u.openSession(ctx, account.ID, customer)
}

func (u *AccountUseCase) Logout(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return u.sessions.Revoke(ctx, sessionID)
}

func (u *AccountUseCase) openSession(ctx context.Context, principalID string, customer entities.Customer) (AuthResult, error) {
	token, session, err := u.tokens.Issue(principalID)
	if err != nil {
		return AuthResult{}, err
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, Customer: customer}, nil
}
