package entities

import "time"

// RequestStatus represents the lifecycle of a service request.
//
// Domain notes:
//   - The request store is the single source of truth for status.
//   - pending -> quoted is performed by the garage back-office, an external
//     actor never modeled here; it also attaches the GarageReply.
//   - quoted -> confirmed/rejected are the only customer transitions and both
//     are terminal. There is no revert.
//   - closed exists in the status domain but nothing in this service produces
//     it; consumers render it like confirmed.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusQuoted    RequestStatus = "quoted"
	StatusConfirmed RequestStatus = "confirmed"
	StatusClosed    RequestStatus = "closed"
	StatusRejected  RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition can leave the status.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusClosed, StatusRejected:
		return true
	}
	return false
}

// MaxImages caps the number of photos attached to one request. Enforced at
// submission, before any upload call is made.
const MaxImages = 3

// GarageReply is the back-office response attached to a request: diagnosis,
// quote/estimate figures and the proposed appointment slot.
//
// Monetary representation:
//   - Amounts are strings, matching the wire format the garage tooling writes.
//   - Cost is a deprecated alias for QuotationAmount; readers must treat them
//     as the same quantity and prefer QuotationAmount when both are present.
type GarageReply struct {
	ProblemFound     string `json:"problem_found"`
	Cost             string `json:"cost,omitempty"`
	QuotationAmount  string `json:"quotation_amount,omitempty"`
	EstimationAmount string `json:"estimation_amount,omitempty"`
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
}

// ServiceRequest is the repair request persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//
// Customer name, phone and vehicle are denormalized onto the record at
// creation so the garage side never joins against the customers table.
// Images holds at most MaxImages URLs, in the customer's selection order.
type ServiceRequest struct {
	ID           string        `json:"id"`
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Phone        string        `json:"phone"`
	Vehicle      string        `json:"vehicle"`
	ProblemText  string        `json:"problem_text"`
	Images       []string      `json:"images"`
	Status       RequestStatus `json:"status"`
	GarageReply  *GarageReply  `json:"garage_reply,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
