package memory

import (
	"context"
	"sort"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

type roomRepo struct{ repos }

// deleteRoom drops a room with its images and detaches its bookings, the
// same effect as the MySQL foreign keys.
func deleteRoom(st *state, id uint64) {
	delete(st.rooms, id)
	for imgID, img := range st.roomImages {
		if img.RoomID == id {
			delete(st.roomImages, imgID)
		}
	}
	for bID, b := range st.bookings {
		if b.RoomID != nil && *b.RoomID == id {
			b.RoomID = nil
			st.bookings[bID] = b
		}
	}
}

func (r roomRepo) Create(_ context.Context, rm *model.Room) error {
	return r.with(func(st *state) error {
		if _, ok := st.properties[rm.PropertyID]; !ok {
			return repository.ErrNotFound
		}
		now := r.s.now()
		rm.ID = st.id()
		rm.CreatedAt, rm.UpdatedAt = now, now
		if rm.Amenities == nil {
			rm.Amenities = model.StringList{}
		}
		stored := *rm
		stored.Images = nil
		st.rooms[rm.ID] = stored
		return nil
	})
}

func (r roomRepo) Get(_ context.Context, id uint64) (*model.Room, error) {
	var out *model.Room
	err := r.with(func(st *state) error {
		rm, ok := st.rooms[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &rm
		return nil
	})
	return out, err
}

func (r roomRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Room, error) {
	return r.Get(ctx, id)
}

func (r roomRepo) Update(_ context.Context, rm *model.Room) error {
	return r.with(func(st *state) error {
		cur, ok := st.rooms[rm.ID]
		if !ok {
			return repository.ErrNotFound
		}
		stored := *rm
		stored.Images = nil
		stored.PropertyID = cur.PropertyID
		stored.CreatedAt = cur.CreatedAt
		stored.UpdatedAt = r.s.now()
		st.rooms[rm.ID] = stored
		rm.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

func (r roomRepo) SetAvailable(_ context.Context, id uint64, available int) error {
	return r.with(func(st *state) error {
		cur, ok := st.rooms[id]
		if !ok {
			return repository.ErrNotFound
		}
		cur.AvailableQuantity = available
		cur.UpdatedAt = r.s.now()
		st.rooms[id] = cur
		return nil
	})
}

func (r roomRepo) Delete(_ context.Context, id uint64) error {
	return r.with(func(st *state) error {
		if _, ok := st.rooms[id]; !ok {
			return repository.ErrNotFound
		}
		deleteRoom(st, id)
		return nil
	})
}

func (r roomRepo) ListByProperty(_ context.Context, propertyID uint64) ([]model.Room, error) {
	return r.filter(func(rm model.Room) bool { return rm.PropertyID == propertyID })
}

func (r roomRepo) ListByPropertyForUpdate(ctx context.Context, propertyID uint64) ([]model.Room, error) {
	return r.ListByProperty(ctx, propertyID)
}

func (r roomRepo) ListAll(_ context.Context) ([]model.Room, error) {
	return r.filter(func(model.Room) bool { return true })
}

func (r roomRepo) filter(keep func(model.Room) bool) ([]model.Room, error) {
	out := []model.Room{}
	err := r.with(func(st *state) error {
		for _, rm := range st.rooms {
			if keep(rm) {
				out = append(out, rm)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
