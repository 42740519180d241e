package policy

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/google/uuid"
)

type State string

const (
	StateAvailable State = "available"
	StateReserved  State = "reserved"
	StatePurchased State = "purchased"
)

type Action string

const (
	ActionReserve          Action = "reserve"
	ActionClearReservation Action = "clear_reservation"
	ActionPurchase         Action = "purchase"
	ActionClearPurchase    Action = "clear_purchase"
)

var transitions = map[State]map[Action]State{
	StateAvailable: {
		ActionReserve:  StateReserved,
		ActionPurchase: StatePurchased,
	},
	StateReserved: {
		ActionClearReservation: StateAvailable,
		ActionPurchase:         StatePurchased,
	},
	StatePurchased: {
		ActionClearPurchase: StateAvailable,
	},
}

func StateOf(item *models.Item) State {
	switch {
	case item.IsPurchased:
		return StatePurchased
	case item.ReservedByID != nil:
		return StateReserved
	default:
		return StateAvailable
	}
}

// Transition looks up the target state for action from state.
func Transition(from State, action Action) (State, bool) {
	to, ok := transitions[from][action]
	return to, ok
}

// Guard returns the policy decision for applying action to item.
func Guard(actor *models.User, item *models.Item, action Action) Decision {
	switch action {
	case ActionReserve:
		return CanReserve(actor, item)
	case ActionClearReservation:
		return CanClearReservation(actor, item)
	case ActionPurchase:
		return CanMarkPurchased(actor, item)
	case ActionClearPurchase:
		return CanClearPurchase(actor, item)
	}
	panic("policy: unknown item action " + string(action))
}

// Apply moves item along the transition table and returns the new state.
// Callers must have checked Guard. An action with no edge from the item's
// current state, or a mutation that lands anywhere but the table's target,
// leaves item untouched and reports false.
func Apply(item *models.Item, actorID uuid.UUID, action Action) (State, bool) {
	to, ok := Transition(StateOf(item), action)
	if !ok {
		return StateOf(item), false
	}

	next := *item
	switch action {
	case ActionReserve:
		id := actorID
		next.ReservedByID = &id
	case ActionClearReservation:
		next.ReservedByID = nil
	case ActionPurchase:
		id := actorID
		next.ReservedByID = &id
		next.IsPurchased = true
	case ActionClearPurchase:
		next.ReservedByID = nil
		next.IsPurchased = false
	}
	if StateOf(&next) != to || !Consistent(&next) {
		return StateOf(item), false
	}
	*item = next
	return to, true
}

// Consistent reports whether item satisfies IsPurchased => ReservedByID != nil.
func Consistent(item *models.Item) bool {
	return !item.IsPurchased || item.ReservedByID != nil
}
