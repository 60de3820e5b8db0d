package lifecycle

import (
	"errors"
	"fmt"

	"quickfix/internal/domain/entities"
)

// Actor identifies who is performing a status transition.
const (
	ActorCustomer = "customer"
	ActorGarage   = "garage"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Transition defines a valid status change and who can perform it.
type Transition struct {
	From  entities.RequestStatus
	To    entities.RequestStatus
	Actor string
}

// validTransitions is the authoritative state machine definition.
//
// closed has no producer here: nothing transitions into it and nothing leaves
// it. confirmed and rejected are terminal.
var validTransitions = []Transition{
	// Garage attaches its reply and quotes the request.
	{From: entities.StatusPending, To: entities.StatusQuoted, Actor: ActorGarage},
	// Customer accepts the quote and appointment slot.
	{From: entities.StatusQuoted, To: entities.StatusConfirmed, Actor: ActorCustomer},
	// Customer turns the quote down.
	{From: entities.StatusQuoted, To: entities.StatusRejected, Actor: ActorCustomer},
}

type transitionKey struct {
	From  entities.RequestStatus
	To    entities.RequestStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// CanTransition checks whether the given actor may move a request from one
// status to another. Callers must treat an error as a contract violation and
// refuse to issue the mutation.
func CanTransition(from, to entities.RequestStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s is not allowed for actor %q", ErrInvalidTransition, from, to, actor)
}

// NextStatuses returns all statuses reachable from the given one, for any
// actor. Empty for terminal statuses.
func NextStatuses(from entities.RequestStatus) []entities.RequestStatus {
	var nexts []entities.RequestStatus
	seen := map[entities.RequestStatus]bool{}
	for _, t := range validTransitions {
		if t.From == from && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}
