package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	handlermocks "quickfix/internal/adapter/http/handlers/mocks"
	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase"
	mock_interfaces "quickfix/internal/usecase/interfaces/mocks"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

type stubParser struct {
	principalID string
	sessionID   string
	err         error
}

func (s stubParser) Parse(string) (string, string, error) {
	return s.principalID, s.sessionID, s.err
}

func TestSessionRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(parser TokenParser, sessions *mock_interfaces.MockISessionStore, authHeader string) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/protected", SessionRequired(parser, sessions), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"principal_id": c.GetString(CtxPrincipalID),
				"session_id":   c.GetString(CtxSessionID),
			})
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing header", func(t *testing.T) {
		w := serve(stubParser{}, nil, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := serve(stubParser{}, nil, "Basic abc")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		w := serve(stubParser{err: errors.New("expired")}, nil, "Bearer bad-token")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		sessions := mock_interfaces.NewMockISessionStore(ctrl)
		sessions.EXPECT().Active(gomock.Any(), "jti-1").Return(false, nil)

		w := serve(stubParser{principalID: "p-1", sessionID: "jti-1"}, sessions, "Bearer tok")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("active session passes identity through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		sessions := mock_interfaces.NewMockISessionStore(ctrl)
		sessions.EXPECT().Active(gomock.Any(), "jti-1").Return(true, nil)

		w := serve(stubParser{principalID: "p-1", sessionID: "jti-1"}, sessions, "Bearer tok")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if body != `{"principal_id":"p-1","session_id":"jti-1"}` {
			t.Fatalf("unexpected body: %s", body)
		}
	})
}

func TestCustomerRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(identity usecase.IIdentityUseCase) *httptest.ResponseRecorder {
		r := gin.New()
		inject := func(c *gin.Context) {
			c.Set(CtxPrincipalID, "p-1")
			c.Set(CtxSessionID, "jti-1")
		}
		r.GET("/protected", inject, CustomerRequired(identity), func(c *gin.Context) {
			customer, ok := CustomerFromContext(c)
			if !ok {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "no customer"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"name": customer.Name})
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("no profile fails closed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		identity := handlermocks.NewMockIIdentityUseCase(ctrl)
		identity.EXPECT().Resolve(gomock.Any(), "p-1", "jti-1").Return(entities.Customer{}, usecase.ErrNoCustomerProfile)

		w := serve(identity)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("transient resolver failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		identity := handlermocks.NewMockIIdentityUseCase(ctrl)
		identity.EXPECT().Resolve(gomock.Any(), "p-1", "jti-1").Return(entities.Customer{}, errors.New("db"))

		w := serve(identity)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("resolved profile is injected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		identity := handlermocks.NewMockIIdentityUseCase(ctrl)
		identity.EXPECT().Resolve(gomock.Any(), "p-1", "jti-1").Return(entities.Customer{ID: "p-1", Name: "Ana"}, nil)

		w := serve(identity)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Body.String() != `{"name":"Ana"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
