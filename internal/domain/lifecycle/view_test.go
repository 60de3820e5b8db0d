package lifecycle

import (
	"testing"

	"quickfix/internal/domain/entities"
)

func TestDeriveView_Waiting(t *testing.T) {
	v := DeriveView(entities.ServiceRequest{Status: entities.StatusPending})
	if v.Kind != ViewWaiting {
		t.Fatalf("expected waiting view, got %s", v.Kind)
	}
	if v.ActionsEnabled {
		t.Fatalf("waiting view must not offer actions")
	}
	if v.Quote.Kind != QuotePending {
		t.Fatalf("expected pending quote, got %+v", v.Quote)
	}
}

func TestDeriveView_Proposal(t *testing.T) {
	req := entities.ServiceRequest{
		Status: entities.StatusQuoted,
		GarageReply: &entities.GarageReply{
			ProblemFound:    "brake pads worn",
			QuotationAmount: "120",
			Date:            "2024-05-01",
			Time:            "10:00",
		},
	}

	v := DeriveView(req)
	if v.Kind != ViewProposal {
		t.Fatalf("expected proposal view, got %s", v.Kind)
	}
	if v.Diagnosis != "brake pads worn" {
		t.Fatalf("unexpected diagnosis: %q", v.Diagnosis)
	}
	if v.Quote.String() != "$120" {
		t.Fatalf("unexpected quote: %s", v.Quote.String())
	}
	if v.Slot.String() != "2024-05-01 / 10:00" {
		t.Fatalf("unexpected slot: %s", v.Slot.String())
	}
	if !v.ActionsEnabled {
		t.Fatalf("quoted proposal must offer confirm/reject")
	}
}

func TestDeriveView_ProposalFieldsAreIndependent(t *testing.T) {
	t.Run("reply without figures or slot", func(t *testing.T) {
		v := DeriveView(entities.ServiceRequest{
			Status:      entities.StatusPending,
			GarageReply: &entities.GarageReply{ProblemFound: "needs inspection"},
		})
		if v.Kind != ViewProposal {
			t.Fatalf("non-empty reply must render as proposal, got %s", v.Kind)
		}
		if v.ActionsEnabled {
			t.Fatalf("actions are offered only when status is quoted")
		}
		if v.Quote.Kind != QuotePending {
			t.Fatalf("expected pending quote, got %+v", v.Quote)
		}
		if v.Slot.String() != SlotTBD {
			t.Fatalf("expected TBD slot, got %s", v.Slot.String())
		}
	})

	t.Run("date without time stays TBD", func(t *testing.T) {
		v := DeriveView(entities.ServiceRequest{
			Status:      entities.StatusQuoted,
			GarageReply: &entities.GarageReply{ProblemFound: "x", Date: "2024-05-01"},
		})
		if v.Slot.Set || v.Slot.String() != SlotTBD {
			t.Fatalf("expected unset slot, got %+v", v.Slot)
		}
	})

	t.Run("estimation renders alongside quote and slot", func(t *testing.T) {
		v := DeriveView(entities.ServiceRequest{
			Status: entities.StatusQuoted,
			GarageReply: &entities.GarageReply{
				ProblemFound:     "worn clutch",
				QuotationAmount:  "400",
				EstimationAmount: "350",
				Date:             "2024-06-01",
				Time:             "09:00",
			},
		})
		if v.EstimationAmount != "350" {
			t.Fatalf("estimation must render independently, got %q", v.EstimationAmount)
		}
		if v.Quote.Amount != "400" || v.Quote.Kind != QuoteFinal {
			t.Fatalf("unexpected quote: %+v", v.Quote)
		}
	})
}

func TestDeriveView_TerminalSummaries(t *testing.T) {
	reply := &entities.GarageReply{QuotationAmount: "120", Date: "2024-05-01", Time: "10:00"}

	t.Run("confirmed", func(t *testing.T) {
		v := DeriveView(entities.ServiceRequest{Vehicle: "2018 Toyota Camry", Status: entities.StatusConfirmed, GarageReply: reply})
		if v.Kind != ViewConfirmedSummary {
			t.Fatalf("expected confirmed summary, got %s", v.Kind)
		}
		if v.Vehicle != "2018 Toyota Camry" {
			t.Fatalf("unexpected vehicle: %q", v.Vehicle)
		}
		if v.Quote.String() != "$120" {
			t.Fatalf("unexpected quote: %s", v.Quote.String())
		}
		if v.ActionsEnabled {
			t.Fatalf("terminal view must not offer actions")
		}
	})

	t.Run("closed renders like confirmed", func(t *testing.T) {
		v := DeriveView(entities.ServiceRequest{Status: entities.StatusClosed, GarageReply: reply})
		if v.Kind != ViewConfirmedSummary {
			t.Fatalf("expected confirmed summary for closed, got %s", v.Kind)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		v := DeriveView(entities.ServiceRequest{Status: entities.StatusRejected, GarageReply: &entities.GarageReply{Cost: "110"}})
		if v.Kind != ViewRejectedSummary {
			t.Fatalf("expected rejected summary, got %s", v.Kind)
		}
		if v.Quote.Amount != "110" {
			t.Fatalf("unexpected quote: %+v", v.Quote)
		}
	})
}

func TestSummaryLine(t *testing.T) {
	cases := []struct {
		name  string
		reply *entities.GarageReply
		want  string
	}{
		{"no reply", nil, "Pending"},
		{"final quote", &entities.GarageReply{QuotationAmount: "120"}, "$120"},
		{"legacy cost", &entities.GarageReply{Cost: "110"}, "$110"},
		{"estimate only", &entities.GarageReply{EstimationAmount: "95"}, "$95 (Est.)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SummaryLine(entities.ServiceRequest{GarageReply: tc.reply})
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
