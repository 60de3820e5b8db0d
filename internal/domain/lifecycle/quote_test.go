package lifecycle

import (
	"testing"

	"quickfix/internal/domain/entities"
)

func TestResolveQuote(t *testing.T) {
	t.Run("nil reply is pending", func(t *testing.T) {
		q := ResolveQuote(nil)
		if q.Kind != QuotePending || q.Amount != "" {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if q.String() != "Pending" {
			t.Fatalf("unexpected rendering: %s", q.String())
		}
	})

	t.Run("quotation amount wins over everything", func(t *testing.T) {
		q := ResolveQuote(&entities.GarageReply{
			QuotationAmount:  "120",
			Cost:             "110",
			EstimationAmount: "100",
		})
		if q.Kind != QuoteFinal || q.Amount != "120" {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if q.String() != "$120" {
			t.Fatalf("unexpected rendering: %s", q.String())
		}
	})

	t.Run("legacy cost is the same quantity", func(t *testing.T) {
		q := ResolveQuote(&entities.GarageReply{Cost: "110", EstimationAmount: "100"})
		if q.Kind != QuoteFinal || q.Amount != "110" {
			t.Fatalf("unexpected quote: %+v", q)
		}
	})

	t.Run("estimation alone carries the estimate marker", func(t *testing.T) {
		q := ResolveQuote(&entities.GarageReply{EstimationAmount: "95"})
		if q.Kind != QuoteEstimate || q.Amount != "95" {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if q.String() != "$95 (Est.)" {
			t.Fatalf("unexpected rendering: %s", q.String())
		}
	})

	t.Run("reply without figures is pending", func(t *testing.T) {
		q := ResolveQuote(&entities.GarageReply{ProblemFound: "brake pads worn"})
		if q.Kind != QuotePending {
			t.Fatalf("unexpected quote: %+v", q)
		}
	})
}
