package model

import "time"

// PropertyImage is a gallery picture of a property.  Image holds the media
// store reference, never binary content.
type PropertyImage struct {
	ID         uint64    `json:"id"`          // property_images.id
	PropertyID uint64    `json:"property_id"` // property_images.property_id
	Image      string    `json:"image"`       // property_images.image
	Caption    string    `json:"caption"`     // property_images.caption
	SortOrder  int       `json:"sort_order"`  // property_images.sort_order
	CreatedAt  time.Time `json:"created_at"`  // property_images.created_at
}

// RoomImage is a gallery picture of a single room.
type RoomImage struct {
	ID        uint64    `json:"id"`         // room_images.id
	RoomID    uint64    `json:"room_id"`    // room_images.room_id
	Image     string    `json:"image"`      // room_images.image
	Caption   string    `json:"caption"`    // room_images.caption
	SortOrder int       `json:"sort_order"` // room_images.sort_order
	CreatedAt time.Time `json:"created_at"` // room_images.created_at
}
