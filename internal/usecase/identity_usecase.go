package usecase

import (
	"context"
	"errors"
	"strings"

	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase/interfaces"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidPrincipalID = errors.New("invalid principal id")
	ErrNoCustomerProfile  = errors.New("no customer profile for principal")
)

// IIdentityUseCase maps an authenticated principal to its Customer profile.
//
// A principal that exists in the auth layer but has no profile record is an
// inconsistent state that must never be presented as "logged in with no
// data": Resolve repairs it by revoking the session, forcing the user back
// through registration.
type IIdentityUseCase interface {
	Resolve(ctx context.Context, principalID, sessionID string) (entities.Customer, error)
}

type IdentityUseCase struct {
	customers interfaces.ICustomerRepository
	sessions  interfaces.ISessionStore
	log       zerolog.Logger
}

var _ IIdentityUseCase = (*IdentityUseCase)(nil)

func NewIdentityUseCase(customers interfaces.ICustomerRepository, sessions interfaces.ISessionStore, log zerolog.Logger) *IdentityUseCase {
	return &IdentityUseCase{customers: customers, sessions: sessions, log: log}
}

// Resolve fetches the Customer keyed by the principal id.
//
// Found -> the customer. Absent -> fails closed: the session is revoked
// exactly once and ErrNoCustomerProfile is returned. Transient fetch errors
// propagate without revoking; the caller treats them as "no customer" for
// this request and the user may retry.
func (u *IdentityUseCase) Resolve(ctx context.Context, principalID, sessionID string) (entities.Customer, error) {
	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return entities.Customer{}, ErrInvalidPrincipalID
	}

	c, err := u.customers.GetByID(ctx, principalID)
	if err != nil {
		u.log.Error().Err(err).Str("principal_id", principalID).Msg("customer profile fetch failed")
		return entities.Customer{}, err
	}
	if c.ID == "" {
		u.log.Warn().Str("principal_id", principalID).Msg("authenticated principal has no customer profile, revoking session")
		if err := u.sessions.Revoke(ctx, sessionID); err != nil {
			u.log.Error().Err(err).Str("session_id", sessionID).Msg("session revocation failed")
		}
		return entities.Customer{}, ErrNoCustomerProfile
	}
	return c, nil
}
