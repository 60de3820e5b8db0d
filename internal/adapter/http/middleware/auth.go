package middleware

import (
	"errors"
	"net/http"
	"strings"

	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase"
	"quickfix/internal/usecase/interfaces"
	"quickfix/pkg"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares below.
const (
	CtxPrincipalID = "principalID"
	CtxSessionID   = "sessionID"
	CtxCustomer    = "customer"
)

var (
	errMissingBearer  = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authorization header required (Bearer <token>)", http.StatusUnauthorized)
	errInvalidToken   = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Invalid or expired token", http.StatusUnauthorized)
	errSessionRevoked = pkg.NewDomainErrorSimple("SESSION_REVOKED", "Session is no longer valid", http.StatusUnauthorized)
	errNoProfile      = pkg.NewDomainErrorSimple("NO_CUSTOMER_PROFILE", "No customer profile found. Please register again.", http.StatusUnauthorized)
)

// TokenParser validates a bearer token and extracts its identity claims.
type TokenParser interface {
	Parse(token string) (principalID, sessionID string, err error)
}

// SessionRequired validates the bearer token and checks the session record
// behind it is still active. On success the principal and session ids are
// injected into the request context.
func SessionRequired(parser TokenParser, sessions interfaces.ISessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(errMissingBearer.HTTPStatus, errMissingBearer.ToHTTPError())
			return
		}

		principalID, sessionID, err := parser.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(errInvalidToken.HTTPStatus, errInvalidToken.ToHTTPError())
			return
		}

		active, err := sessions.Active(c.Request.Context(), sessionID)
		if err != nil || !active {
			c.AbortWithStatusJSON(errSessionRevoked.HTTPStatus, errSessionRevoked.ToHTTPError())
			return
		}

		c.Set(CtxPrincipalID, principalID)
		c.Set(CtxSessionID, sessionID)
		c.Next()
	}
}

// CustomerRequired resolves the authenticated principal to its customer
// profile and injects it into the request context. A principal without a
// profile is failed closed: the identity use case has already revoked the
// session by the time the 401 goes out.
func CustomerRequired(identity usecase.IIdentityUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID := c.GetString(CtxPrincipalID)
		sessionID := c.GetString(CtxSessionID)

		customer, err := identity.Resolve(c.Request.Context(), principalID, sessionID)
		if err != nil {
			if errors.Is(err, usecase.ErrNoCustomerProfile) {
				c.AbortWithStatusJSON(errNoProfile.HTTPStatus, errNoProfile.ToHTTPError())
				return
			}
			// Transient fetch failure: fail safe, never pretend the
			// user is logged in with no data.
			appErr := pkg.NewDomainError("PROFILE_UNAVAILABLE", "Could not load your profile. Please try again.", err, http.StatusUnauthorized)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}

		c.Set(CtxCustomer, customer)
		c.Next()
	}
}

// CustomerFromContext returns the resolved customer set by CustomerRequired.
func CustomerFromContext(c *gin.Context) (entities.Customer, bool) {
	v, ok := c.Get(CtxCustomer)
	if !ok {
		return entities.Customer{}, false
	}
	customer, ok := v.(entities.Customer)
	return customer, ok
}
