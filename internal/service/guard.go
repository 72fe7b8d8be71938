package service

import (
	"context"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// OwnsProperty reports whether u is the owner of p.
func OwnsProperty(u model.User, p *model.Property) bool {
	if p == nil {
		return false
	}
	switch u.Role {
	case model.RoleOwner:
		return p.OwnerID == u.ID
	case model.RoleSeeker:
		return false
	}
	return false
}

// OwnsRoom reports whether u owns room r through its parent property p.
func OwnsRoom(u model.User, r *model.Room, p *model.Property) bool {
	if r == nil || p == nil || r.PropertyID != p.ID {
		return false
	}
	return OwnsProperty(u, p)
}

// IsBookingSeeker reports whether u placed booking b.
func IsBookingSeeker(u model.User, b *model.Booking) bool {
	if b == nil {
		return false
	}
	switch u.Role {
	case model.RoleSeeker:
		return b.SeekerID == u.ID
	case model.RoleOwner:
		return false
	}
	return false
}

// IsBookingOwner reports whether u owns the property booking b is for.
func IsBookingOwner(u model.User, b *model.Booking) bool {
	if b == nil {
		return false
	}
	switch u.Role {
	case model.RoleOwner:
		return b.OwnerID == u.ID
	case model.RoleSeeker:
		return false
	}
	return false
}

func requireOwner(u model.User) error {
	switch u.Role {
	case model.RoleOwner:
		return nil
	case model.RoleSeeker:
		return forbiddenf("only owners can manage properties")
	}
	return forbiddenf("unknown role %q", u.Role)
}

func requireSeeker(u model.User) error {
	switch u.Role {
	case model.RoleSeeker:
		return nil
	case model.RoleOwner:
		return forbiddenf("only seekers can request bookings")
	}
	return forbiddenf("unknown role %q", u.Role)
}

// ownedProperty loads a property the actor owns.  Someone else's property
// is reported exactly like a missing one.
func ownedProperty(ctx context.Context, props repository.PropertyRepository, u model.User, id uint64, lock bool) (*model.Property, error) {
	var (
		p   *model.Property
		err error
	)
	if lock {
		p, err = props.GetForUpdate(ctx, id)
	} else {
		p, err = props.Get(ctx, id)
	}
	if err != nil {
		return nil, notFoundOr(err, "property", id)
	}
	if !OwnsProperty(u, p) {
		return nil, notFoundf("property %d not found", id)
	}
	return p, nil
}
