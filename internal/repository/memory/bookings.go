package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

type bookingRepo struct{ repos }

func (r bookingRepo) Create(_ context.Context, b *model.Booking) error {
	return r.with(func(st *state) error {
		now := r.s.now()
		b.ID = st.id()
		b.CreatedAt, b.UpdatedAt = now, now
		st.bookings[b.ID] = *b
		return nil
	})
}

func (r bookingRepo) Get(_ context.Context, id uint64) (*model.Booking, error) {
	var out *model.Booking
	err := r.with(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r bookingRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.Get(ctx, id)
}

func (r bookingRepo) UpdateStatus(_ context.Context, b *model.Booking) error {
	return r.with(func(st *state) error {
		cur, ok := st.bookings[b.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Status, cur.OwnerNote, cur.RespondedAt = b.Status, b.OwnerNote, b.RespondedAt
		cur.UpdatedAt = r.s.now()
		st.bookings[b.ID] = cur
		b.UpdatedAt = cur.UpdatedAt
		return nil
	})
}

func (r bookingRepo) ListBySeeker(_ context.Context, seekerID uint64, f model.BookingFilter) ([]model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.SeekerID == seekerID && matches(b, f) })
}

func (r bookingRepo) ListByOwner(_ context.Context, ownerID uint64, f model.BookingFilter) ([]model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.OwnerID == ownerID && matches(b, f) })
}

func matches(b model.Booking, f model.BookingFilter) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.PropertyID != 0 && b.PropertyID != f.PropertyID {
		return false
	}
	return f.RoomID == 0 || (b.RoomID != nil && *b.RoomID == f.RoomID)
}

func (r bookingRepo) ListActiveByRoomForUpdate(_ context.Context, roomID uint64) ([]model.Booking, error) {
	out, err := r.filter(func(b model.Booking) bool {
		return b.RoomID != nil && *b.RoomID == roomID && b.Status.HoldsReservation()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r bookingRepo) ReservedByRoom(_ context.Context) (map[uint64]int, error) {
	out := map[uint64]int{}
	err := r.with(func(st *state) error {
		for _, b := range st.bookings {
			if b.RoomID != nil && b.Status.HoldsReservation() {
				out[*b.RoomID] += b.Quantity
			}
		}
		return nil
	})
	return out, err
}

// filter returns matching bookings newest first.
func (r bookingRepo) filter(keep func(model.Booking) bool) ([]model.Booking, error) {
	out := []model.Booking{}
	err := r.with(func(st *state) error {
		for _, b := range st.bookings {
			if keep(b) {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r bookingRepo) AppendHistory(_ context.Context, h *model.BookingHistory) error {
	return r.with(func(st *state) error {
		if _, ok := st.bookings[h.BookingID]; !ok {
			return repository.ErrNotFound
		}
		h.ID = st.id()
		h.CreatedAt = r.s.now()
		st.history = append(st.history, *h)
		return nil
	})
}

// AppendRawHistory stores h as given, ID and timestamp included.  Tests use
// it to plant duplicate or malformed rows that the service never writes.
func (s *Store) AppendRawHistory(h model.BookingHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		h.ID = s.data.id()
	}
	s.data.history = append(s.data.history, h)
}

func (r bookingRepo) ListHistory(_ context.Context, q repository.HistoryQuery) ([]model.HistoryEntry, error) {
	if q.SeekerID == 0 && q.OwnerID == 0 {
		return nil, errors.New("history query needs a seeker or owner")
	}
	wanted := map[model.BookingStatus]bool{}
	for _, s := range q.ToStatuses {
		wanted[s] = true
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	out := []model.HistoryEntry{}
	err := r.with(func(st *state) error {
		type pair struct {
			booking uint64
			to      model.BookingStatus
		}
		first := map[pair]uint64{}
		for _, h := range st.history {
			k := pair{h.BookingID, h.ToStatus}
			if id, ok := first[k]; !ok || h.ID < id {
				first[k] = h.ID
			}
		}
		for _, h := range st.history {
			if first[pair{h.BookingID, h.ToStatus}] != h.ID {
				continue
			}
			b, ok := st.bookings[h.BookingID]
			if !ok {
				continue
			}
			if q.SeekerID != 0 && b.SeekerID != q.SeekerID {
				continue
			}
			if q.SeekerID == 0 && b.OwnerID != q.OwnerID {
				continue
			}
			if len(wanted) > 0 && !wanted[h.ToStatus] {
				continue
			}
			if c := q.Before; c != nil {
				if h.CreatedAt.After(c.At) || (h.CreatedAt.Equal(c.At) && h.ID >= c.ID) {
					continue
				}
			}
			e := model.HistoryEntry{
				BookingHistory: h,
				SeekerID:       b.SeekerID,
				OwnerID:        b.OwnerID,
				PropertyID:     b.PropertyID,
				RoomID:         b.RoomID,
				Quantity:       b.Quantity,
			}
			if p, ok := st.properties[b.PropertyID]; ok {
				e.PropertyName = p.Name
			}
			if b.RoomID != nil {
				if rm, ok := st.rooms[*b.RoomID]; ok {
					e.RoomName = rm.Name
				}
			}
			out = append(out, e)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}
