// Package queue carries booking lifecycle events over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// BookingQueue is the durable queue every booking status change is
// published to.
const BookingQueue = "booking.events"

// BookingEvent is published after a booking status change commits.  It
// carries enough context for consumers to log or notify without reading
// the primary database.
type BookingEvent struct {
	EventID    string              `json:"event_id"`
	BookingID  uint64              `json:"booking_id"`
	SeekerID   uint64              `json:"seeker_id"`
	OwnerID    uint64              `json:"owner_id"`
	PropertyID uint64              `json:"property_id"`
	RoomID     *uint64             `json:"room_id"`
	Quantity   int                 `json:"quantity"`
	From       model.BookingStatus `json:"from,omitempty"`
	To         model.BookingStatus `json:"to"`
	ActorID    uint64              `json:"actor_id"`
	Note       string              `json:"note,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// NewBookingEvent builds the event for history row h of booking b.
func NewBookingEvent(b model.Booking, h model.BookingHistory) BookingEvent {
	at := h.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return BookingEvent{
		EventID:    uuid.NewString(),
		BookingID:  b.ID,
		SeekerID:   b.SeekerID,
		OwnerID:    b.OwnerID,
		PropertyID: b.PropertyID,
		RoomID:     b.RoomID,
		Quantity:   b.Quantity,
		From:       h.FromStatus,
		To:         h.ToStatus,
		ActorID:    h.ActorID,
		Note:       h.Note,
		OccurredAt: at,
	}
}
