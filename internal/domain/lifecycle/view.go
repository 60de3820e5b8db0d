package lifecycle

import "quickfix/internal/domain/entities"

// ViewKind tags the display state derived from a request. Exactly one view
// applies to any record, so render sites switch on the tag instead of
// re-checking optional-field combinations.
type ViewKind string

const (
	// ViewWaiting: request sent, garage has not replied yet.
	ViewWaiting ViewKind = "waiting"
	// ViewProposal: the garage reply is shown; actions are offered only
	// while the status is exactly quoted.
	ViewProposal ViewKind = "proposal"
	// ViewConfirmedSummary: terminal confirmation summary. Also used for
	// closed, which has no dedicated producer or view of its own.
	ViewConfirmedSummary ViewKind = "confirmed"
	// ViewRejectedSummary: terminal rejection summary, quote struck through.
	ViewRejectedSummary ViewKind = "rejected"
)

// SlotTBD marks an appointment slot the garage has not fixed yet.
const SlotTBD = "TBD"

// Slot is the proposed appointment. Set is false unless both date and time
// were provided.
type Slot struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
	Set  bool   `json:"set"`
}

func (s Slot) String() string {
	if !s.Set {
		return SlotTBD
	}
	return s.Date + " / " + s.Time
}

// View is the tagged union over the five statuses. Only the fields valid for
// the tagged kind are populated; everything is a pure function of the raw
// record.
type View struct {
	Kind ViewKind `json:"kind"`

	// Proposal fields. Diagnosis, Quote and Slot render independently of
	// one another; none implies the others are present.
	Diagnosis        string `json:"diagnosis,omitempty"`
	EstimationAmount string `json:"estimation_amount,omitempty"`
	ActionsEnabled   bool   `json:"actions_enabled"`

	// Summary fields (confirmed/rejected).
	Vehicle string `json:"vehicle,omitempty"`

	Quote Quote `json:"quote"`
	Slot  Slot  `json:"slot"`
}

// DeriveView maps a raw record to its display state. It is total: every
// status yields a view, and a non-empty garage reply on an unexpected status
// still renders as a proposal (with actions disabled).
func DeriveView(req entities.ServiceRequest) View {
	quote := ResolveQuote(req.GarageReply)
	slot := deriveSlot(req.GarageReply)

	switch req.Status {
	case entities.StatusConfirmed, entities.StatusClosed:
		return View{
			Kind:    ViewConfirmedSummary,
			Vehicle: req.Vehicle,
			Quote:   quote,
			Slot:    slot,
		}
	case entities.StatusRejected:
		return View{
			Kind:  ViewRejectedSummary,
			Quote: quote,
			Slot:  slot,
		}
	}

	if req.GarageReply == nil {
		return View{Kind: ViewWaiting, Quote: quote, Slot: slot}
	}

	return View{
		Kind:             ViewProposal,
		Diagnosis:        req.GarageReply.ProblemFound,
		EstimationAmount: req.GarageReply.EstimationAmount,
		ActionsEnabled:   req.Status == entities.StatusQuoted,
		Quote:            quote,
		Slot:             slot,
	}
}

func deriveSlot(reply *entities.GarageReply) Slot {
	if reply == nil || reply.Date == "" || reply.Time == "" {
		if reply != nil {
			return Slot{Date: reply.Date, Time: reply.Time}
		}
		return Slot{}
	}
	return Slot{Date: reply.Date, Time: reply.Time, Set: true}
}

// SummaryLine is the list-view one-liner for a request, reusing the same
// quote resolution as the detail view.
func SummaryLine(req entities.ServiceRequest) string {
	return ResolveQuote(req.GarageReply).String()
}
