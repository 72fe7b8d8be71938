package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

type propertyRepo struct{ repos }

func (r propertyRepo) Create(_ context.Context, p *model.Property) error {
	return r.with(func(st *state) error {
		now := r.s.now()
		p.ID = st.id()
		p.CreatedAt, p.UpdatedAt = now, now
		if p.Amenities == nil {
			p.Amenities = model.StringList{}
		}
		stored := *p
		stored.Rooms, stored.Images = nil, nil
		st.properties[p.ID] = stored
		return nil
	})
}

func (r propertyRepo) Get(_ context.Context, id uint64) (*model.Property, error) {
	var out *model.Property
	err := r.with(func(st *state) error {
		p, ok := st.properties[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r propertyRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Property, error) {
	return r.Get(ctx, id)
}

func (r propertyRepo) Update(_ context.Context, p *model.Property) error {
	return r.with(func(st *state) error {
		cur, ok := st.properties[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Name, cur.Location, cur.Description = p.Name, p.Location, p.Description
		cur.CoverImage, cur.Amenities = p.CoverImage, p.Amenities
		cur.ElectricityIncluded, cur.CleaningIncluded, cur.IsActive = p.ElectricityIncluded, p.CleaningIncluded, p.IsActive
		cur.UpdatedAt = r.s.now()
		st.properties[p.ID] = cur
		p.UpdatedAt = cur.UpdatedAt
		return nil
	})
}

func (r propertyRepo) Delete(_ context.Context, id uint64) error {
	return r.with(func(st *state) error {
		if _, ok := st.properties[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.properties, id)
		for imgID, img := range st.propImages {
			if img.PropertyID == id {
				delete(st.propImages, imgID)
			}
		}
		for roomID, rm := range st.rooms {
			if rm.PropertyID == id {
				deleteRoom(st, roomID)
			}
		}
		return nil
	})
}

func (r propertyRepo) ListByOwner(_ context.Context, ownerID uint64) ([]model.Property, error) {
	return r.filter(func(p model.Property) bool { return p.OwnerID == ownerID })
}

func (r propertyRepo) ListActive(_ context.Context, f model.PropertyFilter) ([]model.Property, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return r.filter(func(p model.Property) bool {
		if !p.IsActive {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Location), q) {
			return false
		}
		if f.ElectricityIncluded != nil && p.ElectricityIncluded != *f.ElectricityIncluded {
			return false
		}
		if f.CleaningIncluded != nil && p.CleaningIncluded != *f.CleaningIncluded {
			return false
		}
		return true
	})
}

func (r propertyRepo) filter(keep func(model.Property) bool) ([]model.Property, error) {
	out := []model.Property{}
	err := r.with(func(st *state) error {
		for _, p := range st.properties {
			if keep(p) {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}
