// Package memory is an in-process implementation of repository.Store.
// Transactions are serialized by one mutex and applied copy-on-write, so a
// failing transaction leaves nothing behind.  It backs the service tests
// and local runs without MySQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

type state struct {
	nextID     uint64
	properties map[uint64]model.Property
	rooms      map[uint64]model.Room
	propImages map[uint64]model.PropertyImage
	roomImages map[uint64]model.RoomImage
	bookings   map[uint64]model.Booking
	history    []model.BookingHistory
}

func newState() *state {
	return &state{
		properties: map[uint64]model.Property{},
		rooms:      map[uint64]model.Room{},
		propImages: map[uint64]model.PropertyImage{},
		roomImages: map[uint64]model.RoomImage{},
		bookings:   map[uint64]model.Booking{},
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:     s.nextID,
		properties: make(map[uint64]model.Property, len(s.properties)),
		rooms:      make(map[uint64]model.Room, len(s.rooms)),
		propImages: make(map[uint64]model.PropertyImage, len(s.propImages)),
		roomImages: make(map[uint64]model.RoomImage, len(s.roomImages)),
		bookings:   make(map[uint64]model.Booking, len(s.bookings)),
		history:    append([]model.BookingHistory(nil), s.history...),
	}
	for k, v := range s.properties {
		c.properties[k] = v
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.propImages {
		c.propImages[k] = v
	}
	for k, v := range s.roomImages {
		c.roomImages[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	return c
}

func (s *state) id() uint64 {
	s.nextID++
	return s.nextID
}

// Store implements repository.Store in memory.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{data: newState(), now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

// InTx runs fn against a private copy of the data and publishes the copy
// only when fn succeeds and ctx is still alive.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.data.clone()
	if err := fn(repos{s: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Properties() repository.PropertyRepository { return repos{s: s}.Properties() }
func (s *Store) Rooms() repository.RoomRepository           { return repos{s: s}.Rooms() }
func (s *Store) Images() repository.ImageRepository         { return repos{s: s}.Images() }
func (s *Store) Bookings() repository.BookingRepository     { return repos{s: s}.Bookings() }

// repos binds the repositories either to a transaction copy (tx != nil) or
// to the live data under the store mutex.
type repos struct {
	s  *Store
	tx *state
}

func (r repos) Properties() repository.PropertyRepository { return propertyRepo{r} }
func (r repos) Rooms() repository.RoomRepository           { return roomRepo{r} }
func (r repos) Images() repository.ImageRepository         { return imageRepo{r} }
func (r repos) Bookings() repository.BookingRepository     { return bookingRepo{r} }

func (r repos) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(r.s.data)
}
