package entities

// Customer is the vehicle owner's profile persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//
// The id always equals the authenticated principal id issued at registration,
// so profile resolution is a direct key lookup. The profile is immutable after
// registration; there is no edit flow.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// Account is the credential record backing a Customer login.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (email-index): email
//
// The account id doubles as the customer id. The bcrypt hash never leaves
// the persistence layer.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
