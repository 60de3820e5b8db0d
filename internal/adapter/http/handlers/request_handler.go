package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	request "quickfix/internal/adapter/http/dto/request"
	response "quickfix/internal/adapter/http/dto/response"
	"quickfix/internal/adapter/http/middleware"
	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase"
	"quickfix/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidDecisionPayload = pkg.NewDomainErrorSimple("CONFIRMATION_REQUIRED", "Explicit confirmation is required for this action", http.StatusBadRequest)
	errNotSignedIn            = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Not signed in", http.StatusUnauthorized)
)

// imagesFormField is the multipart field carrying the attached photos.
const imagesFormField = "images"

// RequestHandler handles the customer-side service request endpoints.
type RequestHandler struct {
	usecase usecase.IRequestUseCase
}

func NewRequestHandler(uc usecase.IRequestUseCase) *RequestHandler {
	return &RequestHandler{usecase: uc}
}

// Create accepts a multipart submission: a problem_text field plus up to 3
// image files. The image cap is checked before any file is even opened.
func (h *RequestHandler) Create(c *gin.Context) {
	customer, ok := middleware.CustomerFromContext(c)
	if !ok {
		c.JSON(errNotSignedIn.HTTPStatus, errNotSignedIn.ToHTTPError())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST_INPUT", "Invalid submission payload", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	files := form.File[imagesFormField]
	if len(files) > entities.MaxImages {
		appErr := mapRequestError(usecase.ErrTooManyImages)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	photos := make([]usecase.Photo, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		defer f.Close()
		photos = append(photos, usecase.Photo{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        f,
		})
	}

	created, err := h.usecase.Create(c.Request.Context(), customer, c.PostForm("problem_text"), photos)
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromServiceRequest(created))
}

// List returns the customer's requests newest first, each with its summary
// line and derived view.
func (h *RequestHandler) List(c *gin.Context) {
	customer, ok := middleware.CustomerFromContext(c)
	if !ok {
		c.JSON(errNotSignedIn.HTTPStatus, errNotSignedIn.ToHTTPError())
		return
	}

	requests, err := h.usecase.ListByCustomer(c.Request.Context(), customer.ID)
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceRequests(requests))
}

func (h *RequestHandler) Get(c *gin.Context) {
	customer, ok := middleware.CustomerFromContext(c)
	if !ok {
		c.JSON(errNotSignedIn.HTTPStatus, errNotSignedIn.ToHTTPError())
		return
	}

	r, err := h.usecase.GetByID(c.Request.Context(), customer.ID, c.Param("id"))
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceRequest(r))
}

func (h *RequestHandler) Confirm(c *gin.Context) {
	h.decide(c, h.usecase.Confirm)
}

func (h *RequestHandler) Reject(c *gin.Context) {
	h.decide(c, h.usecase.Reject)
}

func (h *RequestHandler) decide(
	c *gin.Context,
	action func(ctx context.Context, customerID, requestID string) (entities.ServiceRequest, error),
) {
	customer, ok := middleware.CustomerFromContext(c)
	if !ok {
		c.JSON(errNotSignedIn.HTTPStatus, errNotSignedIn.ToHTTPError())
		return
	}

	// The explicit confirm flag is the are-you-sure step: without it no
	// mutation is issued.
	var payload request.DecisionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidDecisionPayload.HTTPStatus, errInvalidDecisionPayload.ToHTTPError())
		return
	}

	updated, err := action(c.Request.Context(), customer.ID, c.Param("id"))
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceRequest(updated))
}

// Watch streams full snapshots of the customer's requests as server-sent
// events. Each event carries the complete, newest-first set; the client
// replaces its state wholesale. The stream ends when the client disconnects.
func (h *RequestHandler) Watch(c *gin.Context) {
	customer, ok := middleware.CustomerFromContext(c)
	if !ok {
		c.JSON(errNotSignedIn.HTTPStatus, errNotSignedIn.ToHTTPError())
		return
	}

	snapshots, err := h.usecase.Watch(c.Request.Context(), customer.ID)
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-snapshots
		if !open {
			return false
		}
		c.SSEvent("snapshot", response.FromServiceRequests(snapshot))
		return true
	})
}

func mapRequestError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrEmptyProblemText):
		return pkg.NewDomainErrorSimple("EMPTY_PROBLEM_TEXT", "Please describe your problem.", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTooManyImages):
		return pkg.NewDomainErrorSimple("TOO_MANY_IMAGES", "You can only upload up to 3 images.", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidRequestID), errors.Is(err, usecase.ErrInvalidCustomerID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return pkg.NewDomainErrorSimple("REQUEST_NOT_FOUND", "Service request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNotQuoted):
		return pkg.NewDomainErrorSimple("REQUEST_NOT_QUOTED", "Only a quoted request can be confirmed or rejected.", http.StatusConflict)
	case errors.Is(err, usecase.ErrImageUploadFailed):
		return pkg.NewDomainErrorSimple("UPLOAD_FAILED", "Failed to submit request. Please check your connection and try again.", http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
