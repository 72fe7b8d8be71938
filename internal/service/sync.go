package service

import (
	"context"
	"time"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// syncer reconciles the child collections of one property inside a single
// transaction.  The caller holds the property row lock, so no other
// mutation of the same property interleaves with it.
type syncer struct {
	tx     repository.Repos
	actor  model.User
	now    time.Time
	force  bool
	policy Policy
	fx     *effects
}

// rooms replaces the property's rooms with in: listed ids are updated,
// entries without an id are created and every other room is removed.
func (s *syncer) rooms(ctx context.Context, prop *model.Property, in []RoomInput) error {
	existing, err := s.tx.Rooms().ListByPropertyForUpdate(ctx, prop.ID)
	if err != nil {
		return err
	}
	byID := make(map[uint64]*model.Room, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}
	keep := map[uint64]bool{}
	for _, rin := range in {
		if rin.ID == 0 {
			continue
		}
		if _, ok := byID[rin.ID]; !ok {
			return notFoundf("room %d not found in property %d", rin.ID, prop.ID)
		}
		keep[rin.ID] = true
	}

	for i := range existing {
		if !keep[existing[i].ID] {
			if err := s.removeRoom(ctx, &existing[i]); err != nil {
				return err
			}
		}
	}
	for _, rin := range in {
		if rin.ID != 0 {
			if err := s.updateRoom(ctx, byID[rin.ID], rin); err != nil {
				return err
			}
			continue
		}
		if _, err := s.createRoom(ctx, prop.ID, rin); err != nil {
			return err
		}
	}
	return nil
}

// createRoom inserts a validated room payload.  Every provisioned unit
// starts out available.
func (s *syncer) createRoom(ctx context.Context, propertyID uint64, in RoomInput) (*model.Room, error) {
	room := &model.Room{PropertyID: propertyID, IsActive: true}
	if err := applyRoomInput(room, in); err != nil {
		return nil, err
	}
	room.AvailableQuantity = room.TotalQuantity
	if err := s.tx.Rooms().Create(ctx, room); err != nil {
		return nil, err
	}
	if in.Images.Set {
		if err := s.roomImages(ctx, room.ID, in.Images.Value); err != nil {
			return nil, err
		}
	}
	return room, nil
}

// updateRoom applies in to a room whose row lock is already held.
func (s *syncer) updateRoom(ctx context.Context, room *model.Room, in RoomInput) error {
	if err := applyRoomInput(room, in); err != nil {
		return err
	}
	if err := s.tx.Rooms().Update(ctx, room); err != nil {
		return err
	}
	if in.Images.Set {
		return s.roomImages(ctx, room.ID, in.Images.Value)
	}
	return nil
}

// applyRoomInput copies the payload onto room.  Units held by live
// bookings stay reserved, so the available count follows the new total
// and a total below the reserved count is refused.
func applyRoomInput(room *model.Room, in RoomInput) error {
	reserved := room.Reserved()
	if room.ID != 0 && in.TotalQuantity < reserved {
		return validationf("total_quantity %d is below the %d units held by active bookings", in.TotalQuantity, reserved)
	}
	room.Name = in.Name
	room.Type = in.Type
	room.Description = in.Description
	room.PricePerMonth = in.PricePerMonth
	room.Capacity = in.Capacity
	room.Amenities = model.StringList(in.Amenities)
	if room.Amenities == nil {
		room.Amenities = model.StringList{}
	}
	room.ElectricityIncluded = in.ElectricityIncluded
	room.CleaningIncluded = in.CleaningIncluded
	if in.IsActive != nil {
		room.IsActive = *in.IsActive
	}
	room.TotalQuantity = in.TotalQuantity
	room.AvailableQuantity = in.TotalQuantity - reserved
	return nil
}

// removeRoom deletes a room.  Live bookings block the deletion unless the
// caller forced it and policy allows that, in which case they are closed
// first and their history records why.
func (s *syncer) removeRoom(ctx context.Context, room *model.Room) error {
	active, err := s.tx.Bookings().ListActiveByRoomForUpdate(ctx, room.ID)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		if !s.force {
			return newError(KindRoomHasActiveBookings, "room %d has %d active bookings", room.ID, len(active))
		}
		if !s.policy.AllowForcedCascade {
			return validationf("forced cancellation of active bookings is disabled")
		}
		for i := range active {
			if err := s.closeBooking(ctx, &active[i]); err != nil {
				return err
			}
		}
	}
	imgs, err := s.tx.Images().ListRoomImages(ctx, room.ID)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		s.fx.media(img.Image)
	}
	return s.tx.Rooms().Delete(ctx, room.ID)
}

func (s *syncer) closeBooking(ctx context.Context, b *model.Booking) error {
	from := b.Status
	b.Status = closingStatus(from)
	if from == model.BookingPending {
		now := s.now
		b.RespondedAt = &now
	}
	if err := s.tx.Bookings().UpdateStatus(ctx, b); err != nil {
		return err
	}
	h := model.BookingHistory{BookingID: b.ID, FromStatus: from, ToStatus: b.Status, ActorID: s.actor.ID, Note: "room removed by owner"}
	if err := s.tx.Bookings().AppendHistory(ctx, &h); err != nil {
		return err
	}
	s.fx.booking(*b, h)
	return nil
}

// propertyImages replaces the property gallery with in.
func (s *syncer) propertyImages(ctx context.Context, propertyID uint64, in []ImageInput) error {
	imgs := s.tx.Images()
	existing, err := imgs.ListPropertyImages(ctx, propertyID)
	if err != nil {
		return err
	}
	refs := make([]imageRef, len(existing))
	for i, e := range existing {
		refs[i] = imageRef{ID: e.ID, Image: e.Image}
	}
	return s.images(refs, in, "property", propertyID, imageOps{
		create: func(in ImageInput) error {
			return imgs.CreatePropertyImage(ctx, &model.PropertyImage{PropertyID: propertyID, Image: in.Image, Caption: in.Caption, SortOrder: in.SortOrder})
		},
		update: func(id uint64, in ImageInput) error {
			return imgs.UpdatePropertyImage(ctx, &model.PropertyImage{ID: id, PropertyID: propertyID, Image: in.Image, Caption: in.Caption, SortOrder: in.SortOrder})
		},
		remove: func(id uint64) error { return imgs.DeletePropertyImage(ctx, id) },
	})
}

// roomImages replaces a room gallery with in.
func (s *syncer) roomImages(ctx context.Context, roomID uint64, in []ImageInput) error {
	imgs := s.tx.Images()
	existing, err := imgs.ListRoomImages(ctx, roomID)
	if err != nil {
		return err
	}
	refs := make([]imageRef, len(existing))
	for i, e := range existing {
		refs[i] = imageRef{ID: e.ID, Image: e.Image}
	}
	return s.images(refs, in, "room", roomID, imageOps{
		create: func(in ImageInput) error {
			return imgs.CreateRoomImage(ctx, &model.RoomImage{RoomID: roomID, Image: in.Image, Caption: in.Caption, SortOrder: in.SortOrder})
		},
		update: func(id uint64, in ImageInput) error {
			return imgs.UpdateRoomImage(ctx, &model.RoomImage{ID: id, RoomID: roomID, Image: in.Image, Caption: in.Caption, SortOrder: in.SortOrder})
		},
		remove: func(id uint64) error { return imgs.DeleteRoomImage(ctx, id) },
	})
}

type imageRef struct {
	ID    uint64
	Image string
}

type imageOps struct {
	create func(ImageInput) error
	update func(id uint64, in ImageInput) error
	remove func(id uint64) error
}

// images is the replace-by-presence diff shared by both galleries.  Media
// no longer referenced after the diff is queued for removal.
func (s *syncer) images(existing []imageRef, in []ImageInput, parent string, parentID uint64, ops imageOps) error {
	byID := make(map[uint64]imageRef, len(existing))
	for _, e := range existing {
		byID[e.ID] = e
	}
	keep := map[uint64]bool{}
	for _, img := range in {
		if img.ID == 0 {
			continue
		}
		if _, ok := byID[img.ID]; !ok {
			return notFoundf("image %d not found in %s %d", img.ID, parent, parentID)
		}
		keep[img.ID] = true
	}
	for _, e := range existing {
		if keep[e.ID] {
			continue
		}
		if err := ops.remove(e.ID); err != nil {
			return err
		}
		s.fx.media(e.Image)
	}
	for _, img := range in {
		if img.ID == 0 {
			if err := ops.create(img); err != nil {
				return err
			}
			continue
		}
		if old := byID[img.ID]; old.Image != img.Image {
			s.fx.media(old.Image)
		}
		if err := ops.update(img.ID, img); err != nil {
			return err
		}
	}
	return nil
}
