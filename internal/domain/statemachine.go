package domain

// Actor identifies who requests a transition.
type Actor string

const (
	// ActorOwner is the user who placed the order.
	ActorOwner Actor = "owner"
	// ActorGateway is the payment provider, via a verified webhook.
	ActorGateway Actor = "gateway"
	// ActorSystem is the stale pending order sweep.
	ActorSystem Actor = "system"
	// ActorAdmin is an administrator. Admin changes go through ForceTransition.
	ActorAdmin Actor = "admin"
)

// transitions lists, per actor, the statuses each target may be reached from.
var transitions = map[Actor]map[OrderStatus][]OrderStatus{
	ActorOwner: {
		StatusCancelled: {StatusPending},
	},
	ActorGateway: {
		StatusConfirmed:     {StatusPending},
		StatusPaymentFailed: {StatusPending},
	},
	ActorSystem: {
		StatusCancelled: {StatusPending},
	},
}

// AllowedFrom returns the statuses from which actor may move an order to target.
// It returns nil when the actor has no guarded path to target.
func AllowedFrom(actor Actor, target OrderStatus) []OrderStatus {
	return transitions[actor][target]
}

// Transition validates a guarded transition and returns the new status.
//
// Rejections are ErrInvalidStatus for unknown targets, ErrAlreadyApplied when the
// order already reached or passed the target through the gateway path, and an
// ETRANSITION error naming the current status otherwise.
func Transition(current, requested OrderStatus, actor Actor) (OrderStatus, error) {
	const op = "order.transition"

	if !requested.Valid() {
		return "", ErrInvalidStatus
	}

	for _, from := range AllowedFrom(actor, requested) {
		if current == from {
			return requested, nil
		}
	}

	if actor == ActorGateway && AlreadyReached(current, requested) {
		return current, ErrAlreadyApplied
	}

	if requested == StatusCancelled {
		return "", TransitionError("order.cancel", "cannot cancel order with status %s", current)
	}
	return "", TransitionError(op, "cannot move order from %s to %s", current, requested)
}

// ForceTransition is the permissive admin path: any known status may be set
// from any current status, including backwards moves.
func ForceTransition(current, requested OrderStatus) (OrderStatus, error) {
	if !requested.Valid() {
		return "", ErrInvalidStatus
	}
	return requested, nil
}

// pipelineRank orders the forward shipping pipeline. Terminal side states are absent.
var pipelineRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

// AlreadyReached reports whether current is target or a later pipeline stage.
// A payment_failed order counts as having reached payment_failed only.
func AlreadyReached(current, target OrderStatus) bool {
	if current == target {
		return true
	}
	cr, okc := pipelineRank[current]
	tr, okt := pipelineRank[target]
	return okc && okt && cr > tr
}

// IsTerminal reports whether no guarded transition leaves s.
func IsTerminal(s OrderStatus) bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusPaymentFailed
}
