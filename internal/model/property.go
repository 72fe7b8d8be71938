package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// StringList is an ordered list of free-form strings persisted as a JSON
// array column (amenities).  A nil list is stored as "[]".
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*l = StringList{}
		return nil
	default:
		return fmt.Errorf("string list: unsupported scan type %T", src)
	}
	out := []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*l = out
	return nil
}

// Property is a dorm building listed by an owner.  Deleting a property
// removes its rooms and both image collections.
//
// Fields:
//  ID                  – primary key identifier.
//  OwnerID             – owning account; never changes.
//  Name, Location      – display fields shown to seekers.
//  CoverImage          – media reference of the cover picture (may be empty).
//  Amenities           – ordered amenity labels.
//  ElectricityIncluded – electricity bill covered by rent.
//  CleaningIncluded    – cleaning service covered by rent.
//  IsActive            – inactive properties are hidden from seekers and cannot be booked.
type Property struct {
	ID                  uint64          `json:"id"`                   // properties.id
	OwnerID             uint64          `json:"owner_id"`             // properties.owner_id
	Name                string          `json:"name"`                 // properties.name
	Location            string          `json:"location"`             // properties.location
	Description         string          `json:"description"`          // properties.description
	CoverImage          string          `json:"cover_image"`          // properties.cover_image
	Amenities           StringList      `json:"amenities"`            // properties.amenities (JSON)
	ElectricityIncluded bool            `json:"electricity_included"` // properties.electricity_included
	CleaningIncluded    bool            `json:"cleaning_included"`    // properties.cleaning_included
	IsActive            bool            `json:"is_active"`            // properties.is_active
	CreatedAt           time.Time       `json:"created_at"`           // properties.created_at
	UpdatedAt           time.Time       `json:"updated_at"`           // properties.updated_at
	Rooms               []Room          `json:"rooms"`
	Images              []PropertyImage `json:"images"`
}

// PropertyFilter narrows the public browse listing.
type PropertyFilter struct {
	Query               string // substring of name or location
	ElectricityIncluded *bool
	CleaningIncluded    *bool
}
