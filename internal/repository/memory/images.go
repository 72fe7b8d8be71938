package memory

import (
	"context"
	"sort"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

type imageRepo struct{ repos }

func (r imageRepo) ListPropertyImages(_ context.Context, propertyID uint64) ([]model.PropertyImage, error) {
	out := []model.PropertyImage{}
	err := r.with(func(st *state) error {
		for _, img := range st.propImages {
			if img.PropertyID == propertyID {
				out = append(out, img)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r imageRepo) CreatePropertyImage(_ context.Context, img *model.PropertyImage) error {
	return r.with(func(st *state) error {
		if _, ok := st.properties[img.PropertyID]; !ok {
			return repository.ErrNotFound
		}
		img.ID = st.id()
		img.CreatedAt = r.s.now()
		st.propImages[img.ID] = *img
		return nil
	})
}

func (r imageRepo) UpdatePropertyImage(_ context.Context, img *model.PropertyImage) error {
	return r.with(func(st *state) error {
		cur, ok := st.propImages[img.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Image, cur.Caption, cur.SortOrder = img.Image, img.Caption, img.SortOrder
		st.propImages[img.ID] = cur
		return nil
	})
}

func (r imageRepo) DeletePropertyImage(_ context.Context, id uint64) error {
	return r.with(func(st *state) error {
		if _, ok := st.propImages[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.propImages, id)
		return nil
	})
}

func (r imageRepo) ListRoomImages(_ context.Context, roomID uint64) ([]model.RoomImage, error) {
	out := []model.RoomImage{}
	err := r.with(func(st *state) error {
		for _, img := range st.roomImages {
			if img.RoomID == roomID {
				out = append(out, img)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r imageRepo) CreateRoomImage(_ context.Context, img *model.RoomImage) error {
	return r.with(func(st *state) error {
		if _, ok := st.rooms[img.RoomID]; !ok {
			return repository.ErrNotFound
		}
		img.ID = st.id()
		img.CreatedAt = r.s.now()
		st.roomImages[img.ID] = *img
		return nil
	})
}

func (r imageRepo) UpdateRoomImage(_ context.Context, img *model.RoomImage) error {
	return r.with(func(st *state) error {
		cur, ok := st.roomImages[img.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Image, cur.Caption, cur.SortOrder = img.Image, img.Caption, img.SortOrder
		st.roomImages[img.ID] = cur
		return nil
	})
}

func (r imageRepo) DeleteRoomImage(_ context.Context, id uint64) error {
	return r.with(func(st *state) error {
		if _, ok := st.roomImages[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.roomImages, id)
		return nil
	})
}
