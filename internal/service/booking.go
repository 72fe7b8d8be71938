package service

import (
	"context"
	"errors"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// BookingService runs the booking lifecycle: seekers request rooms, owners
// decide, either side cancels an approved stay.  Every change is one
// transaction that also appends to the booking's status history.
type BookingService struct {
	Deps
}

// NewBookingService builds a BookingService.  It panics without a store.
func NewBookingService(d Deps) *BookingService {
	return &BookingService{Deps: d.withDefaults()}
}

// Create places a booking request.  The requested units are reserved
// immediately, so when two seekers race for the last unit the loser gets
// InsufficientInventory and no booking row is written.
func (s *BookingService) Create(ctx context.Context, actor model.User, in BookingInput) (*model.Booking, error) {
	if err := requireSeeker(actor); err != nil {
		return nil, err
	}
	if err := checkStruct("", in); err != nil {
		return nil, err
	}
	moveIn, moveOut, err := in.dates()
	if err != nil {
		return nil, err
	}

	var (
		out *model.Booking
		fx  *effects
	)
	err = s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx = &effects{}
		room, err := tx.Rooms().GetForUpdate(ctx, in.RoomID)
		if err != nil {
			return notFoundOr(err, "room", in.RoomID)
		}
		prop, err := tx.Properties().Get(ctx, room.PropertyID)
		if err != nil {
			return notFoundOr(err, "room", in.RoomID)
		}
		if !prop.IsActive || !room.IsActive {
			return validationf("room %d is not accepting bookings", room.ID)
		}
		if _, err := Reserve(ctx, tx.Rooms(), room.ID, in.Quantity); err != nil {
			return err
		}
		roomID := room.ID
		b := &model.Booking{
			SeekerID:    actor.ID,
			RoomID:      &roomID,
			PropertyID:  prop.ID,
			OwnerID:     prop.OwnerID,
			Quantity:    in.Quantity,
			Status:      model.BookingPending,
			Message:     in.Message,
			MoveInDate:  moveIn,
			MoveOutDate: moveOut,
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		h := model.BookingHistory{BookingID: b.ID, ToStatus: model.BookingPending, ActorID: actor.ID}
		if err := tx.Bookings().AppendHistory(ctx, &h); err != nil {
			return err
		}
		fx.booking(*b, h)
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(ctx, fx)
	return out, nil
}

// Transition applies an approve, reject or cancel event.  Authorization is
// decided before anything is written; the status is then re-read under
// lock so a decision is never made against a stale state.  A second
// terminal event on the same booking fails with InvalidTransition and
// leaves inventory alone.
func (s *BookingService) Transition(ctx context.Context, actor model.User, id uint64, in TransitionInput) (*model.Booking, error) {
	if _, err := ParseEvent(string(in.Event)); err != nil {
		return nil, err
	}
	if err := checkStruct("", in); err != nil {
		return nil, err
	}
	if in.ExpectedStatus != "" && !in.ExpectedStatus.Valid() {
		return nil, validationf("unknown expected_status %q", in.ExpectedStatus)
	}

	var (
		out *model.Booking
		fx  *effects
	)
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx = &effects{}
		b, err := tx.Bookings().Get(ctx, id)
		if err != nil {
			return notFoundOr(err, "booking", id)
		}
		if err := authorizeEvent(actor, b, in.Event); err != nil {
			return err
		}
		// Room before booking: the lock order every writer follows.
		if b.RoomID != nil {
			if _, err := tx.Rooms().GetForUpdate(ctx, *b.RoomID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		if b, err = tx.Bookings().GetForUpdate(ctx, id); err != nil {
			return notFoundOr(err, "booking", id)
		}
		if in.ExpectedStatus != "" && in.ExpectedStatus != b.Status {
			return newError(KindInvalidTransition, "booking is %s, not %s", b.Status, in.ExpectedStatus)
		}
		from := b.Status
		next, err := NextStatus(from, in.Event)
		if err != nil {
			return err
		}
		if from.HoldsReservation() && !next.HoldsReservation() && b.RoomID != nil {
			if _, err := Release(ctx, tx.Rooms(), *b.RoomID, b.Quantity); err != nil {
				return err
			}
		}
		b.Status = next
		if from == model.BookingPending {
			now := s.Now()
			b.RespondedAt = &now
		}
		if in.Note != "" && IsBookingOwner(actor, b) {
			b.OwnerNote = in.Note
		}
		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return err
		}
		h := model.BookingHistory{BookingID: b.ID, FromStatus: from, ToStatus: next, ActorID: actor.ID, Note: in.Note}
		if err := tx.Bookings().AppendHistory(ctx, &h); err != nil {
			return err
		}
		fx.booking(*b, h)
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(ctx, fx)
	return out, nil
}

// Get returns a booking to its seeker or its owner.
func (s *BookingService) Get(ctx context.Context, actor model.User, id uint64) (*model.Booking, error) {
	b, err := s.Store.Bookings().Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking", id)
	}
	if !IsBookingSeeker(actor, b) && !IsBookingOwner(actor, b) {
		return nil, notFoundf("booking %d not found", id)
	}
	return b, nil
}

// ListForSeeker returns the actor's own bookings, newest first.
func (s *BookingService) ListForSeeker(ctx context.Context, actor model.User, f model.BookingFilter) ([]model.Booking, error) {
	if err := requireSeeker(actor); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationf("unknown status %q", f.Status)
	}
	return s.Store.Bookings().ListBySeeker(ctx, actor.ID, f)
}

// ListForOwner returns bookings on the actor's rooms, newest first.
func (s *BookingService) ListForOwner(ctx context.Context, actor model.User, f model.BookingFilter) ([]model.Booking, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationf("unknown status %q", f.Status)
	}
	return s.Store.Bookings().ListByOwner(ctx, actor.ID, f)
}
