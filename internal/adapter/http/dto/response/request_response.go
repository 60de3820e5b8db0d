package response

import (
	"time"

	"quickfix/internal/domain/entities"
	"quickfix/internal/domain/lifecycle"
)

type GarageReplyResponse struct {
	ProblemFound     string `json:"problem_found"`
	Cost             string `json:"cost,omitempty"`
	QuotationAmount  string `json:"quotation_amount,omitempty"`
	EstimationAmount string `json:"estimation_amount,omitempty"`
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
}

// RequestResponse carries the raw record plus everything the client renders
// from it: the derived view (tagged by kind) and the list summary line. The
// client never re-implements the fallback chains.
type RequestResponse struct {
	ID          string               `json:"id"`
	CustomerID  string               `json:"customer_id"`
	Vehicle     string               `json:"vehicle"`
	ProblemText string               `json:"problem_text"`
	Images      []string             `json:"images"`
	Status      string               `json:"status"`
	GarageReply *GarageReplyResponse `json:"garage_reply,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	Summary     string               `json:"summary"`
	View        lifecycle.View       `json:"view"`
}

func FromServiceRequest(r entities.ServiceRequest) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Vehicle:     r.Vehicle,
		ProblemText: r.ProblemText,
		Images:      r.Images,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		Summary:     lifecycle.SummaryLine(r),
		View:        lifecycle.DeriveView(r),
	}
	if r.GarageReply != nil {
		resp.GarageReply = &GarageReplyResponse{
			ProblemFound:     r.GarageReply.ProblemFound,
			Cost:             r.GarageReply.Cost,
			QuotationAmount:  r.GarageReply.QuotationAmount,
			EstimationAmount: r.GarageReply.EstimationAmount,
			Date:             r.GarageReply.Date,
			Time:             r.GarageReply.Time,
		}
	}
	return resp
}

func FromServiceRequests(requests []entities.ServiceRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, FromServiceRequest(r))
	}
	return out
}
