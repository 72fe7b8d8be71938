package service

import (
	"context"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// PropertyService manages properties and their room and image graphs on
// behalf of owners, and serves the public listing to seekers.
type PropertyService struct {
	Deps
}

// NewPropertyService builds a PropertyService.  It panics without a store.
func NewPropertyService(d Deps) *PropertyService {
	return &PropertyService{Deps: d.withDefaults()}
}

func (s *PropertyService) syncer(tx repository.Repos, actor model.User, force bool, fx *effects) *syncer {
	return &syncer{tx: tx, actor: actor, now: s.Now(), force: force, policy: s.Policy, fx: fx}
}

// Create stores a new property together with any rooms and images in the
// payload.  Nested rooms go through the same validation as CreateRoom.
func (s *PropertyService) Create(ctx context.Context, actor model.User, in PropertyInput) (*model.Property, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *model.Property
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx := &effects{}
		p := &model.Property{
			OwnerID:             actor.ID,
			Name:                in.Name,
			Location:            in.Location,
			Description:         in.Description,
			CoverImage:          in.CoverImage,
			Amenities:           model.StringList(in.Amenities),
			ElectricityIncluded: in.ElectricityIncluded,
			CleaningIncluded:    in.CleaningIncluded,
			IsActive:            true,
		}
		if p.Amenities == nil {
			p.Amenities = model.StringList{}
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		if err := tx.Properties().Create(ctx, p); err != nil {
			return err
		}
		sy := s.syncer(tx, actor, false, fx)
		for _, rin := range in.Rooms {
			if _, err := sy.createRoom(ctx, p.ID, rin); err != nil {
				return err
			}
		}
		if err := sy.propertyImages(ctx, p.ID, in.Images); err != nil {
			return err
		}
		graph, err := loadGraph(ctx, tx, p.ID, false)
		if err != nil {
			return err
		}
		out = graph
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(ctx, &effects{listings: true})
	return out, nil
}

// Get returns one of the actor's properties with rooms and images.
func (s *PropertyService) Get(ctx context.Context, actor model.User, id uint64) (*model.Property, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if _, err := ownedProperty(ctx, s.Store.Properties(), actor, id, false); err != nil {
		return nil, err
	}
	return loadGraph(ctx, s.Store, id, false)
}

// ListOwned returns the actor's properties with their rooms and images.
func (s *PropertyService) ListOwned(ctx context.Context, actor model.User) ([]model.Property, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	props, err := s.Store.Properties().ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for i := range props {
		if err := attachChildren(ctx, s.Store, &props[i], false); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// Update applies a partial update.  Scalar fields that are nil stay as
// they are; a set Rooms or Images list replaces the whole collection.  The
// update is all or nothing.
func (s *PropertyService) Update(ctx context.Context, actor model.User, id uint64, in PropertyPatch, force bool) (*model.Property, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var (
		out *model.Property
		fx  *effects
	)
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx = &effects{listings: true}
		p, err := ownedProperty(ctx, tx.Properties(), actor, id, true)
		if err != nil {
			return err
		}
		oldCover := p.CoverImage
		applyPropertyPatch(p, in)
		if err := tx.Properties().Update(ctx, p); err != nil {
			return err
		}
		if oldCover != p.CoverImage {
			fx.media(oldCover)
		}
		sy := s.syncer(tx, actor, force, fx)
		if in.Rooms.Set {
			if err := sy.rooms(ctx, p, in.Rooms.Value); err != nil {
				return err
			}
		}
		if in.Images.Set {
			if err := sy.propertyImages(ctx, p.ID, in.Images.Value); err != nil {
				return err
			}
		}
		graph, err := loadGraph(ctx, tx, p.ID, false)
		if err != nil {
			return err
		}
		fx.removedMedia = unreferenced(fx.removedMedia, graph)
		out = graph
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(ctx, fx)
	return out, nil
}

func applyPropertyPatch(p *model.Property, in PropertyPatch) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.Amenities != nil {
		p.Amenities = model.StringList(*in.Amenities)
		if p.Amenities == nil {
			p.Amenities = model.StringList{}
		}
	}
	if in.ElectricityIncluded != nil {
		p.ElectricityIncluded = *in.ElectricityIncluded
	}
	if in.CleaningIncluded != nil {
		p.CleaningIncluded = *in.CleaningIncluded
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// Delete removes a property with its rooms and images.  Rooms with live
// bookings block it under the same rule as removing a single room.
func (s *PropertyService) Delete(ctx context.Context, actor model.User, id uint64, force bool) error {
	if err := requireOwner(actor); err != nil {
		return err
	}
	var fx *effects
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx = &effects{listings: true}
		p, err := ownedProperty(ctx, tx.Properties(), actor, id, true)
		if err != nil {
			return err
		}
		rooms, err := tx.Rooms().ListByPropertyForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		sy := s.syncer(tx, actor, force, fx)
		for i := range rooms {
			if err := sy.removeRoom(ctx, &rooms[i]); err != nil {
				return err
			}
		}
		imgs, err := tx.Images().ListPropertyImages(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, img := range imgs {
			fx.media(img.Image)
		}
		fx.media(p.CoverImage)
		return notFoundOr(tx.Properties().Delete(ctx, p.ID), "property", p.ID)
	})
	if err != nil {
		return err
	}
	s.apply(ctx, fx)
	return nil
}

// CreateRoom adds a room to one of the actor's properties.
func (s *PropertyService) CreateRoom(ctx context.Context, actor model.User, propertyID uint64, in RoomInput) (*model.Room, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if in.ID != 0 {
		return nil, validationf("id must not be set on a new room")
	}
	if err := validateRoom("", in); err != nil {
		return nil, err
	}
	var out *model.Room
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx := &effects{}
		p, err := ownedProperty(ctx, tx.Properties(), actor, propertyID, true)
		if err != nil {
			return err
		}
		room, err := s.syncer(tx, actor, false, fx).createRoom(ctx, p.ID, in)
		if err != nil {
			return err
		}
		out, err = loadRoom(ctx, tx, room.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.apply(ctx, &effects{listings: true})
	return out, nil
}

// UpdateRoom replaces the fields of one of the actor's rooms.  Images are
// replaced only when the payload carries an images key.
func (s *PropertyService) UpdateRoom(ctx context.Context, actor model.User, roomID uint64, in RoomInput) (*model.Room, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if err := validateRoom("", in); err != nil {
		return nil, err
	}
	var (
		out *model.Room
		fx  *effects
	)
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx = &effects{listings: true}
		room, err := s.lockOwnedRoom(ctx, tx, actor, roomID)
		if err != nil {
			return err
		}
		if err := s.syncer(tx, actor, false, fx).updateRoom(ctx, room, in); err != nil {
			return err
		}
		out, err = loadRoom(ctx, tx, room.ID)
		if err != nil {
			return err
		}
		graph, err := loadGraph(ctx, tx, room.PropertyID, false)
		if err != nil {
			return err
		}
		fx.removedMedia = unreferenced(fx.removedMedia, graph)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(ctx, fx)
	return out, nil
}

// DeleteRoom removes one of the actor's rooms.
func (s *PropertyService) DeleteRoom(ctx context.Context, actor model.User, roomID uint64, force bool) error {
	if err := requireOwner(actor); err != nil {
		return err
	}
	var fx *effects
	err := s.Store.InTx(ctx, func(tx repository.Repos) error {
		fx = &effects{listings: true}
		room, err := s.lockOwnedRoom(ctx, tx, actor, roomID)
		if err != nil {
			return err
		}
		return s.syncer(tx, actor, force, fx).removeRoom(ctx, room)
	})
	if err != nil {
		return err
	}
	s.apply(ctx, fx)
	return nil
}

// lockOwnedRoom locks the parent property and then the room, the same
// order the property synchronizer uses.
func (s *PropertyService) lockOwnedRoom(ctx context.Context, tx repository.Repos, actor model.User, roomID uint64) (*model.Room, error) {
	room, err := tx.Rooms().Get(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	p, err := tx.Properties().GetForUpdate(ctx, room.PropertyID)
	if err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	if !OwnsRoom(actor, room, p) {
		return nil, notFoundf("room %d not found", roomID)
	}
	room, err = tx.Rooms().GetForUpdate(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	return room, nil
}

// Browse lists active properties with their active rooms for seekers.
func (s *PropertyService) Browse(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	props, err := s.Store.Properties().ListActive(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range props {
		if err := attachChildren(ctx, s.Store, &props[i], true); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// GetPublic returns an active property with its active rooms.  Inactive
// properties are reported as missing.
func (s *PropertyService) GetPublic(ctx context.Context, id uint64) (*model.Property, error) {
	p, err := loadGraph(ctx, s.Store, id, true)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, notFoundf("property %d not found", id)
	}
	return p, nil
}

func loadGraph(ctx context.Context, r repository.Repos, id uint64, activeOnly bool) (*model.Property, error) {
	p, err := r.Properties().Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "property", id)
	}
	if err := attachChildren(ctx, r, p, activeOnly); err != nil {
		return nil, err
	}
	return p, nil
}

func attachChildren(ctx context.Context, r repository.Repos, p *model.Property, activeOnly bool) error {
	rooms, err := r.Rooms().ListByProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Rooms = make([]model.Room, 0, len(rooms))
	for _, rm := range rooms {
		if activeOnly && !rm.IsActive {
			continue
		}
		if rm.Images, err = r.Images().ListRoomImages(ctx, rm.ID); err != nil {
			return err
		}
		p.Rooms = append(p.Rooms, rm)
	}
	p.Images, err = r.Images().ListPropertyImages(ctx, p.ID)
	return err
}

func loadRoom(ctx context.Context, r repository.Repos, id uint64) (*model.Room, error) {
	room, err := r.Rooms().Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "room", id)
	}
	if room.Images, err = r.Images().ListRoomImages(ctx, id); err != nil {
		return nil, err
	}
	return room, nil
}

// unreferenced drops refs that the property graph still points at, so a
// picture moved between galleries is not deleted from the media store.
func unreferenced(refs []string, p *model.Property) []string {
	if len(refs) == 0 {
		return refs
	}
	used := map[string]bool{p.CoverImage: true}
	for _, img := range p.Images {
		used[img.Image] = true
	}
	for _, rm := range p.Rooms {
		for _, img := range rm.Images {
			used[img.Image] = true
		}
	}
	out := refs[:0]
	seen := map[string]bool{}
	for _, r := range refs {
		if !used[r] && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
