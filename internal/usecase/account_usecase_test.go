package usecase

import (
	"context"
	"errors"
	"testing"

	"quickfix/internal/domain/entities"
	"quickfix/internal/infrastructure/auth"
	"quickfix/internal/usecase/interfaces"
	mock_interfaces "quickfix/internal/usecase/interfaces/mocks"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "Ana@Example.com",
		Password: "secret1",
		Name:     "Ana",
		Phone:    "11999990000",
		Vehicle:  "Fiat Uno 2012",
	}
}

func TestAccountUseCase_Register(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		uc := NewAccountUseCase(nil, nil, nil, nil, zerolog.Nop())
		in := validRegisterInput()
		in.Vehicle = "   "
		_, err := uc.Register(context.Background(), in)
		if !errors.Is(err, ErrInvalidRegistration) {
			t.Fatalf("expected ErrInvalidRegistration, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		uc := NewAccountUseCase(nil, nil, nil, nil, zerolog.Nop())
		in := validRegisterInput()
		in.Password = "12345"
		_, err := uc.Register(context.Background(), in)
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("email already in use", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		uc := NewAccountUseCase(accounts, nil, nil, nil, zerolog.Nop())

		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{ID: "existing"}, nil)

		_, err := uc.Register(context.Background(), validRegisterInput())
		if !errors.Is(err, ErrEmailInUse) {
			t.Fatalf("expected ErrEmailInUse, got %v", err)
		}
	})

	t.Run("email race lost at write time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		uc := NewAccountUseCase(accounts, nil, nil, nil, zerolog.Nop())

		// The GSI pre-check passes, then the conditional marker put loses
		// against a concurrent registration.
		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{}, nil)
		accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Account{}, interfaces.ErrDuplicateEmail)

		_, err := uc.Register(context.Background(), validRegisterInput())
		if !errors.Is(err, ErrEmailInUse) {
			t.Fatalf("expected ErrEmailInUse, got %v", err)
		}
	})

	t.Run("success opens session with shared id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		customers := mock_interfaces.NewMockICustomerRepository(ctrl)
		sessions := mock_interfaces.NewMockISessionStore(ctrl)
		tokens := mock_interfaces.NewMockITokenIssuer(ctrl)
		uc := NewAccountUseCase(accounts, customers, sessions, tokens, zerolog.Nop())

		var principalID string
		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{}, nil)
		accounts.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Account{})).DoAndReturn(
			func(_ context.Context, a entities.Account) (entities.Account, error) {
				if a.ID == "" || a.Email != "ana@example.com" || a.PasswordHash == "" || a.PasswordHash == "secret1" {
					t.Fatalf("unexpected account: %+v", a)
				}
				principalID = a.ID
				return a, nil
			},
		)
		customers.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Customer{})).DoAndReturn(
			func(_ context.Context, c entities.Customer) (entities.Customer, error) {
				if c.ID != principalID {
					t.Fatalf("expected customer id %q, got %q", principalID, c.ID)
				}
				if c.Name != "Ana" || c.Vehicle != "Fiat Uno 2012" {
					t.Fatalf("unexpected customer: %+v", c)
				}
				return c, nil
			},
		)
		tokens.EXPECT().Issue(gomock.AssignableToTypeOf("")).DoAndReturn(
			func(id string) (string, entities.Session, error) {
				if id != principalID {
					t.Fatalf("expected issue for %q, got %q", principalID, id)
				}
				return "tok-1", entities.Session{ID: "jti-1", PrincipalID: id}, nil
			},
		)
		sessions.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Session{})).Return(nil)

		res, err := uc.Register(context.Background(), validRegisterInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Token != "tok-1" || res.Customer.ID != principalID {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}

func TestAccountUseCase_Login(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	t.Run("empty credentials", func(t *testing.T) {
		uc := NewAccountUseCase(nil, nil, nil, nil, zerolog.Nop())
		_, err := uc.Login(context.Background(), "", "secret1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		uc := NewAccountUseCase(accounts, nil, nil, nil, zerolog.Nop())

		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{}, nil)

		_, err := uc.Login(context.Background(), "ana@example.com", "secret1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		uc := NewAccountUseCase(accounts, nil, nil, nil, zerolog.Nop())

		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{ID: "p-1", PasswordHash: hash}, nil)

		_, err := uc.Login(context.Background(), "ana@example.com", "wrong-pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		customers := mock_interfaces.NewMockICustomerRepository(ctrl)
		sessions := mock_interfaces.NewMockISessionStore(ctrl)
		tokens := mock_interfaces.NewMockITokenIssuer(ctrl)
		uc := NewAccountUseCase(accounts, customers, sessions, tokens, zerolog.Nop())

		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{ID: "p-1", Email: "ana@example.com", PasswordHash: hash}, nil)
		customers.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Customer{ID: "p-1", Name: "Ana"}, nil)
		tokens.EXPECT().Issue("p-1").Return("tok-1", entities.Session{ID: "jti-1", PrincipalID: "p-1"}, nil)
		sessions.EXPECT().Create(gomock.Any(), entities.Session{ID: "jti-1", PrincipalID: "p-1"}).Return(nil)

		res, err := uc.Login(context.Background(), " Ana@Example.com ", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Token != "tok-1" || res.Customer.Name != "Ana" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("missing profile still succeeds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		accounts := mock_interfaces.NewMockIAccountRepository(ctrl)
		customers := mock_interfaces.NewMockICustomerRepository(ctrl)
		sessions := mock_interfaces.NewMockISessionStore(ctrl)
		tokens := mock_interfaces.NewMockITokenIssuer(ctrl)
		uc := NewAccountUseCase(accounts, customers, sessions, tokens, zerolog.Nop())

		accounts.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.Account{ID: "p-1", PasswordHash: hash}, nil)
		customers.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Customer{}, nil)
		tokens.EXPECT().Issue("p-1").Return("tok-1", entities.Session{ID: "jti-1", PrincipalID: "p-1"}, nil)
		sessions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		res, err := uc.Login(context.Background(), "ana@example.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Customer.ID != "" {
			t.Fatalf("expected empty customer, got %+v", res.Customer)
		}
	})
}

func TestAccountUseCase_Logout(t *testing.T) {
	t.Run("blank session id is a no-op", func(t *testing.T) {
		uc := NewAccountUseCase(nil, nil, nil, nil, zerolog.Nop())
		if err := uc.Logout(context.Background(), "  "); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("revokes the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		sessions := mock_interfaces.NewMockISessionStore(ctrl)
		uc := NewAccountUseCase(nil, nil, sessions, nil, zerolog.Nop())

		sessions.EXPECT().Revoke(gomock.Any(), "jti-1").Return(nil)

		if err := uc.Logout(context.Background(), "jti-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
