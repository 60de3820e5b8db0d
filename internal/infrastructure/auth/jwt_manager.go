package auth

import (
	"errors"
	"os"
	"time"

	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase/interfaces"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultSessionTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// JWTManager signs and verifies HS256 bearer tokens. The token's jti is the
// session id; the middleware checks it against the session store so a
// revoked session is dead even before the token expires.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

var _ interfaces.ITokenIssuer = (*JWTManager)(nil)

// NewJWTManagerFromEnv reads JWT_SECRET (required outside local runs; a
// local-only default keeps docker-compose setups working).
func NewJWTManagerFromEnv() *JWTManager {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "local-dev-secret"
	}
	return NewJWTManager(secret, defaultSessionTTL)
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

func (m *JWTManager) Issue(principalID string) (string, entities.Session, error) {
	now := time.Now().UTC()
	session := entities.Session{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		IssuedAt:    now,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   principalID,
		ID:        session.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}).SignedString(m.secret)
	if err != nil {
		return "", entities.Session{}, err
	}
	return token, session, nil
}

// Parse validates the signature and expiry and returns the principal id and
// session id carried by the token.
func (m *JWTManager) Parse(token string) (principalID, sessionID string, err error) {
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", "", ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.ID, nil
}
