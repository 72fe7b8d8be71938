package service

import "github.com/iliyamo/dorm-booking/internal/model"

// transitions is the booking lifecycle.  Anything not listed is invalid.
var transitions = map[model.BookingStatus]map[model.BookingEvent]model.BookingStatus{
	model.BookingPending: {
		model.EventApprove: model.BookingApproved,
		model.EventReject:  model.BookingRejected,
	},
	model.BookingApproved: {
		model.EventCancel: model.BookingCancelled,
	},
}

// ParseEvent validates a client supplied event name.
func ParseEvent(s string) (model.BookingEvent, error) {
	switch ev := model.BookingEvent(s); ev {
	case model.EventApprove, model.EventReject, model.EventCancel:
		return ev, nil
	}
	return "", validationf("unknown booking event %q", s)
}

// NextStatus returns the status ev leads to from cur, or InvalidTransition.
func NextStatus(cur model.BookingStatus, ev model.BookingEvent) (model.BookingStatus, error) {
	if next, ok := transitions[cur][ev]; ok {
		return next, nil
	}
	return "", newError(KindInvalidTransition, "cannot %s a booking that is %s", ev, cur)
}

// validStep reports whether a history row describes a step the lifecycle
// allows.  Creation is recorded with an empty from status.
func validStep(from, to model.BookingStatus) bool {
	if from == "" {
		return to == model.BookingPending
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// authorizeEvent decides whether actor may apply ev to b.  A booking the
// actor is not a party to does not exist as far as they can tell.
func authorizeEvent(actor model.User, b *model.Booking, ev model.BookingEvent) error {
	owner := IsBookingOwner(actor, b)
	seeker := IsBookingSeeker(actor, b)
	if !owner && !seeker {
		return notFoundf("booking %d not found", b.ID)
	}
	switch ev {
	case model.EventApprove, model.EventReject:
		if !owner {
			return forbiddenf("only the property owner can %s a booking", ev)
		}
	case model.EventCancel:
	default:
		return validationf("unknown booking event %q", ev)
	}
	return nil
}

// closingStatus is where a live booking goes when its room is removed:
// undecided requests are declined, approved stays are cancelled.
func closingStatus(cur model.BookingStatus) model.BookingStatus {
	if cur == model.BookingPending {
		return model.BookingRejected
	}
	return model.BookingCancelled
}
