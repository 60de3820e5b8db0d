package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"quickfix/internal/domain/entities"
	"quickfix/internal/domain/lifecycle"
	"quickfix/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidRequestID  = errors.New("invalid request id")
	ErrInvalidCustomerID = errors.New("invalid customer id")
	ErrEmptyProblemText  = errors.New("problem description must not be empty")
	ErrTooManyImages     = errors.New("at most 3 images per request")
	ErrRequestNotFound   = errors.New("service request not found")
	ErrNotQuoted         = errors.New("request is not awaiting a customer decision")
	ErrImageUploadFailed = errors.New("image upload failed")
)

// Photo is one image selected for a submission. Data is consumed during
// upload.
type Photo struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// IRequestUseCase exposes the customer-side service request operations.
//
// Confirm and Reject mutate only the status field and return the updated
// record; nothing is cached locally, so readers observe the change through
// the next list or watch snapshot.
type IRequestUseCase interface {
	Create(ctx context.Context, customer entities.Customer, problemText string, photos []Photo) (entities.ServiceRequest, error)
	ListByCustomer(ctx context.Context, customerID string) ([]entities.ServiceRequest, error)
	GetByID(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error)
	Confirm(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error)
	Reject(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error)
	Watch(ctx context.Context, customerID string) (<-chan []entities.ServiceRequest, error)
}

type RequestUseCase struct {
	repo    interfaces.IRequestRepository
	watcher interfaces.IRequestWatcher
	blobs   interfaces.IBlobStore
	log     zerolog.Logger
}

var _ IRequestUseCase = (*RequestUseCase)(nil)

func NewRequestUseCase(repo interfaces.IRequestRepository, watcher interfaces.IRequestWatcher, blobs interfaces.IBlobStore, log zerolog.Logger) *RequestUseCase {
	return &RequestUseCase{repo: repo, watcher: watcher, blobs: blobs, log: log}
}

// Create validates the submission, uploads the photos one by one in selection
// order, and only once every upload succeeded inserts the pending request
// referencing the collected URLs.
//
// A failed upload aborts the whole submission before any record is written.
// Already-uploaded objects are not deleted; the customer resubmits and the
// orphans stay behind.
func (u *RequestUseCase) Create(ctx context.Context, customer entities.Customer, problemText string, photos []Photo) (entities.ServiceRequest, error) {
	problemText = strings.TrimSpace(problemText)
	if problemText == "" {
		return entities.ServiceRequest{}, ErrEmptyProblemText
	}
	if len(photos) > entities.MaxImages {
		return entities.ServiceRequest{}, ErrTooManyImages
	}

	urls := make([]string, 0, len(photos))
	for i, photo := range photos {
		key := photoKey(customer.ID, photo.Filename)
		url, err := u.blobs.Upload(ctx, key, photo.ContentType, photo.Data)
		if err != nil {
			u.log.Error().Err(err).Str("customer_id", customer.ID).Int("image_index", i).Msg("image upload failed, aborting submission")
			return entities.ServiceRequest{}, fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
		}
		urls = append(urls, url)
	}

	r := entities.ServiceRequest{
		ID:           uuid.NewString(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		Vehicle:      customer.Vehicle,
		ProblemText:  problemText,
		Images:       urls,
		Status:       entities.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := u.repo.Insert(ctx, r)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	u.log.Info().Str("request_id", created.ID).Str("customer_id", customer.ID).Int("images", len(urls)).Msg("service request created")
	return created, nil
}

// ListByCustomer returns the customer's requests newest first. The store does
// not guarantee any order, so sorting happens here.
func (u *RequestUseCase) ListByCustomer(ctx context.Context, customerID string) ([]entities.ServiceRequest, error) {
	requests, err := u.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(requests)
	return requests, nil
}

func (u *RequestUseCase) GetByID(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error) {
	return u.ownedRequest(ctx, customerID, requestID)
}

// Confirm moves a quoted request to confirmed. The transition table is the
// gate: any other current status is a contract violation and no update is
// issued.
func (u *RequestUseCase) Confirm(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error) {
	return u.decide(ctx, customerID, requestID, entities.StatusConfirmed)
}

// Reject is symmetric to Confirm and moves the request to rejected.
func (u *RequestUseCase) Reject(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error) {
	return u.decide(ctx, customerID, requestID, entities.StatusRejected)
}

func (u *RequestUseCase) decide(ctx context.Context, customerID, requestID string, to entities.RequestStatus) (entities.ServiceRequest, error) {
	r, err := u.ownedRequest(ctx, customerID, requestID)
	if err != nil {
		return entities.ServiceRequest{}, err
	}

	if err := lifecycle.CanTransition(r.Status, to, lifecycle.ActorCustomer); err != nil {
		return entities.ServiceRequest{}, fmt.Errorf("%w: status is %s", ErrNotQuoted, r.Status)
	}

	updated, err := u.repo.UpdateStatus(ctx, requestID, to)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if updated.ID == "" {
		return entities.ServiceRequest{}, ErrRequestNotFound
	}
	u.log.Info().Str("request_id", requestID).Str("status", string(to)).Msg("customer decision recorded")
	return updated, nil
}

// Watch forwards the watcher's snapshots with the same newest-first ordering
// the list endpoint applies. The channel closes when ctx is cancelled.
func (u *RequestUseCase) Watch(ctx context.Context, customerID string) (<-chan []entities.ServiceRequest, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}

	src, err := u.watcher.Watch(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make(chan []entities.ServiceRequest)
	go func() {
		defer close(out)
		for snapshot := range src {
			sortNewestFirst(snapshot)
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (u *RequestUseCase) ownedRequest(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.ServiceRequest{}, ErrInvalidRequestID
	}

	r, err := u.repo.GetByID(ctx, requestID)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	// A foreign request is reported as not found rather than forbidden.
	if r.ID == "" || r.CustomerID != customerID {
		return entities.ServiceRequest{}, ErrRequestNotFound
	}
	return r, nil
}

func sortNewestFirst(requests []entities.ServiceRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

// photoKey namespaces an upload by owner and disambiguates it with a
// time-based token, keeping the original filename visible for the garage.
func photoKey(customerID, filename string) string {
	return "requests/" + customerID + "/" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10) + "_" + filename
}
