package entities

import "time"

// Session is an issued login session persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id (the JWT jti)
//
// A bearer token is only honored while its session record exists and is not
// revoked. Revocation is how the service force-terminates a session, both on
// logout and when an authenticated principal turns out to have no customer
// profile.
type Session struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	IssuedAt    time.Time `json:"issued_at"`
	Revoked     bool      `json:"revoked"`
}
