package model

import "time"

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCancelled
}

// HoldsReservation reports whether a booking in state s keeps units of its
// room out of the available pool.
func (s BookingStatus) HoldsReservation() bool {
	return s == BookingPending || s == BookingApproved
}

// BookingEvent is an action requested against an existing booking.
type BookingEvent string

const (
	EventApprove BookingEvent = "approve"
	EventReject  BookingEvent = "reject"
	EventCancel  BookingEvent = "cancel"
)

// Booking is a seeker's request for one or more units of a room.
//
// RoomID becomes nil once the room is deleted; PropertyID and OwnerID are
// captured at creation so the booking (and its history) stays attributable
// after the room is gone.
type Booking struct {
	ID          uint64        `json:"id"`                     // bookings.id
	SeekerID    uint64        `json:"seeker_id"`              // bookings.seeker_id
	RoomID      *uint64       `json:"room_id"`                // bookings.room_id (nullable)
	PropertyID  uint64        `json:"property_id"`            // bookings.property_id
	OwnerID     uint64        `json:"owner_id"`               // bookings.owner_id
	Quantity    int           `json:"quantity"`               // bookings.quantity
	Status      BookingStatus `json:"status"`                 // bookings.status
	Message     string        `json:"message"`                // bookings.message
	MoveInDate  *time.Time    `json:"move_in_date,omitempty"` // bookings.move_in_date
	MoveOutDate *time.Time    `json:"move_out_date,omitempty"`
	OwnerNote   string        `json:"owner_note"`             // bookings.owner_note
	RespondedAt *time.Time    `json:"responded_at,omitempty"` // set when the booking leaves PENDING
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BookingFilter narrows owner booking listings.  Zero values mean "any".
type BookingFilter struct {
	Status     BookingStatus
	PropertyID uint64
	RoomID     uint64
}

// BookingHistory is one row of the append-only status trail.  FromStatus is
// empty for the creation record.
type BookingHistory struct {
	ID         uint64        // booking_status_history.id
	BookingID  uint64        // booking_status_history.booking_id
	FromStatus BookingStatus // booking_status_history.from_status (NULL on create)
	ToStatus   BookingStatus // booking_status_history.to_status
	ActorID    uint64        // booking_status_history.actor_id
	Note       string        // booking_status_history.note
	CreatedAt  time.Time     // booking_status_history.created_at
}
