package model

import "time"

// NotificationKind names the booking change a notification describes.
type NotificationKind string

const (
	NotifyBookingCreated   NotificationKind = "BOOKING_CREATED"
	NotifyBookingApproved  NotificationKind = "BOOKING_APPROVED"
	NotifyBookingRejected  NotificationKind = "BOOKING_REJECTED"
	NotifyBookingCancelled NotificationKind = "BOOKING_CANCELLED"
)

// HistoryEntry is a status-history row joined with the booking and room
// context needed to render it.  It is the input of the notification
// projection.
type HistoryEntry struct {
	BookingHistory
	SeekerID     uint64
	OwnerID      uint64
	PropertyID   uint64
	PropertyName string
	RoomID       *uint64
	RoomName     string
	Quantity     int
}

// NotificationView is a notification computed on read from booking history.
// It is never stored.
type NotificationView struct {
	ID           string           `json:"id"` // "<booking_id>:<to_status>"
	Kind         NotificationKind `json:"kind"`
	BookingID    uint64           `json:"booking_id"`
	FromStatus   BookingStatus    `json:"from_status,omitempty"`
	ToStatus     BookingStatus    `json:"to_status"`
	ActorID      uint64           `json:"actor_id"`
	PropertyID   uint64           `json:"property_id"`
	PropertyName string           `json:"property_name"`
	RoomID       *uint64          `json:"room_id"`
	RoomName     string           `json:"room_name"`
	Quantity     int              `json:"quantity"`
	Note         string           `json:"note,omitempty"`
	Message      string           `json:"message"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// NotificationPage is one page of a notification feed.  NextCursor is empty
// on the last page.
type NotificationPage struct {
	Items      []NotificationView `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// HistoryCursor is a position in a feed: everything strictly older than
// (At, ID) comes after it.
type HistoryCursor struct {
	At time.Time
	ID uint64
}
