package interfaces

import (
	"context"
	"errors"

	"quickfix/internal/domain/entities"
)

// ErrDuplicateEmail is returned by IAccountRepository.Create when the email
// was claimed by a concurrent registration after the caller's pre-check.
var ErrDuplicateEmail = errors.New("account email already registered")

// ICustomerRepository abstracts DynamoDB persistence for Customer profiles.
//
// Absent records are reported as a zero-value Customer with a nil error;
// callers check ID == "".
type ICustomerRepository interface {
	Create(ctx context.Context, c entities.Customer) (entities.Customer, error)
	GetByID(ctx context.Context, id string) (entities.Customer, error)
}

// IAccountRepository abstracts DynamoDB persistence for login Accounts.
//
// The service must be able to:
//   - create an account at registration (duplicate email rejected)
//   - resolve an account by email at login (email-index GSI)
type IAccountRepository interface {
	Create(ctx context.Context, a entities.Account) (entities.Account, error)
	GetByEmail(ctx context.Context, email string) (entities.Account, error)
}
