package request

// DecisionRequest is the confirm/reject payload. The confirm flag is the
// are-you-sure gate: the action is terminal and carries a monetary and
// scheduling commitment, so the client must send an explicit
// acknowledgement. A missing or false flag fails binding and no mutation is
// issued.
type DecisionRequest struct {
	Confirm bool `json:"confirm" binding:"required"`
}
