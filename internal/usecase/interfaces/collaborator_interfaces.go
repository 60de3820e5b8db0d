package interfaces

import (
	"context"
	"io"

	"quickfix/internal/domain/entities"
)

// IBlobStore abstracts photo storage (S3).
//
// Upload writes the object under the given key and returns its publicly
// resolvable URL. Uploads are independent; nothing here deletes objects, so a
// submission that fails halfway leaves earlier uploads in place.
type IBlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
}

// ITokenIssuer mints bearer tokens bound to a session record (JWT).
//
// The returned session must be persisted by the caller before the token is
// handed out, otherwise the middleware will reject it as unknown.
type ITokenIssuer interface {
	Issue(principalID string) (token string, session entities.Session, err error)
}

// ISessionStore abstracts issued-session persistence (DynamoDB).
//
// Active reports false for unknown or revoked sessions. Revoke is idempotent
// at the store level; callers decide how often to invoke it.
type ISessionStore interface {
	Create(ctx context.Context, s entities.Session) error
	Active(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}
