package model

import "time"

// RoomType is the kind of room on offer.  The set is open-ended on the
// product side but every stored value must come from KnownRoomTypes.
type RoomType string

const (
	RoomSingle RoomType = "SINGLE"
	RoomDouble RoomType = "DOUBLE"
	RoomTriple RoomType = "TRIPLE"
	RoomQuad   RoomType = "QUAD"
	RoomStudio RoomType = "STUDIO"
	RoomShared RoomType = "SHARED"
	RoomOther  RoomType = "OTHER"
)

// KnownRoomTypes lists every accepted room type.
var KnownRoomTypes = []RoomType{RoomSingle, RoomDouble, RoomTriple, RoomQuad, RoomStudio, RoomShared, RoomOther}

// Room is a bookable unit type inside a property.  TotalQuantity is the
// number of provisioned units; AvailableQuantity is what is left after
// every non-terminal booking took its reservation, so
// 0 <= AvailableQuantity <= TotalQuantity always holds.
type Room struct {
	ID                  uint64      `json:"id"`                   // rooms.id
	PropertyID          uint64      `json:"property_id"`          // rooms.property_id
	Name                string      `json:"name"`                 // rooms.name
	Type                RoomType    `json:"room_type"`            // rooms.room_type
	Description         string      `json:"description"`          // rooms.description
	PricePerMonth       Money       `json:"price_per_month"`      // rooms.price_per_month_cents
	Capacity            int         `json:"capacity"`             // rooms.capacity (occupants per unit)
	TotalQuantity       int         `json:"total_quantity"`       // rooms.total_quantity
	AvailableQuantity   int         `json:"available_quantity"`   // rooms.available_quantity
	Amenities           StringList  `json:"amenities"`            // rooms.amenities (JSON)
	ElectricityIncluded bool        `json:"electricity_included"` // rooms.electricity_included
	CleaningIncluded    bool        `json:"cleaning_included"`    // rooms.cleaning_included
	IsActive            bool        `json:"is_active"`            // rooms.is_active
	CreatedAt           time.Time   `json:"created_at"`           // rooms.created_at
	UpdatedAt           time.Time   `json:"updated_at"`           // rooms.updated_at
	Images              []RoomImage `json:"images"`
}

// Reserved is the number of units currently held by non-terminal bookings.
func (r Room) Reserved() int { return r.TotalQuantity - r.AvailableQuantity }

// CanReserve reports whether qty more units can be taken right now.
func (r Room) CanReserve(qty int) bool { return qty > 0 && r.AvailableQuantity >= qty }
