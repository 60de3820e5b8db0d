package lifecycle

import "quickfix/internal/domain/entities"

// QuoteKind distinguishes how the displayed figure was obtained.
type QuoteKind string

const (
	// QuoteFinal is a binding amount from quotation_amount or the legacy
	// cost field.
	QuoteFinal QuoteKind = "final"
	// QuoteEstimate is a preliminary figure from estimation_amount only.
	QuoteEstimate QuoteKind = "estimate"
	// QuotePending means the garage has not priced the request yet.
	QuotePending QuoteKind = "pending"
)

// Quote is the single display figure derived from a garage reply.
type Quote struct {
	Amount string    `json:"amount,omitempty"`
	Kind   QuoteKind `json:"kind"`
}

// ResolveQuote applies the one documented fallback chain:
// quotation_amount, else cost (deprecated alias), else estimation_amount
// marked as an estimate, else a pending marker. Every render site (list
// summary and detail views) must go through this function so the precedence
// never diverges.
func ResolveQuote(reply *entities.GarageReply) Quote {
	if reply == nil {
		return Quote{Kind: QuotePending}
	}
	if reply.QuotationAmount != "" {
		return Quote{Amount: reply.QuotationAmount, Kind: QuoteFinal}
	}
	if reply.Cost != "" {
		return Quote{Amount: reply.Cost, Kind: QuoteFinal}
	}
	if reply.EstimationAmount != "" {
		return Quote{Amount: reply.EstimationAmount, Kind: QuoteEstimate}
	}
	return Quote{Kind: QuotePending}
}

// String renders the quote the way the customer sees it in the list summary:
// "$120" for a final amount, "$95 (Est.)" for an estimate, "Pending" when the
// garage has not priced the request.
func (q Quote) String() string {
	switch q.Kind {
	case QuoteFinal:
		return "$" + q.Amount
	case QuoteEstimate:
		return "$" + q.Amount + " (Est.)"
	default:
		return "Pending"
	}
}
