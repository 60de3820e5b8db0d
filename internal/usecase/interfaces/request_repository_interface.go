package interfaces

import (
	"context"

	"quickfix/internal/domain/entities"
)

// IRequestRepository abstracts DynamoDB persistence for ServiceRequest.
//
// The service must be able to:
//   - insert a new request at submission (status pending)
//   - load a request by id (ownership is checked by the use case)
//   - list all requests owned by a customer (customer_id-index GSI; the
//     store guarantees no ordering, callers sort)
//   - update only the status field (customer confirm/reject)
type IRequestRepository interface {
	Insert(ctx context.Context, r entities.ServiceRequest) (entities.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (entities.ServiceRequest, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id string, status entities.RequestStatus) (entities.ServiceRequest, error)
}

// IRequestWatcher delivers full snapshots of one customer's requests.
//
// Contract:
//   - an initial snapshot is emitted shortly after Watch returns
//   - a fresh full snapshot follows every change affecting the customer;
//     consumers replace their working copy wholesale, never merge
//   - a newer snapshot may replace an undelivered older one, so a slow
//     consumer only ever sees the latest state
//   - cancelling ctx tears the watch down and closes the channel
type IRequestWatcher interface {
	Watch(ctx context.Context, customerID string) (<-chan []entities.ServiceRequest, error)
}
