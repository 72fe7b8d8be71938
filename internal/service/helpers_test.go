package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository/memory"
)

var (
	owner      = model.User{ID: 10, Role: model.RoleOwner}
	otherOwner = model.User{ID: 11, Role: model.RoleOwner}
	seeker     = model.User{ID: 20, Role: model.RoleSeeker}
	seeker2    = model.User{ID: 21, Role: model.RoleSeeker}
)

type recordedEvent struct {
	BookingID uint64
	From, To  model.BookingStatus
}

type recorder struct {
	mu          sync.Mutex
	events      []recordedEvent
	removed     []string
	invalidated int
	warnings    []string
}

func (r *recorder) BookingChanged(_ context.Context, b model.Booking, h model.BookingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{BookingID: b.ID, From: h.FromStatus, To: h.ToStatus})
	return nil
}

func (r *recorder) Remove(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, ref)
	return nil
}

func (r *recorder) Invalidate(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated++
	return nil
}

func (r *recorder) Infof(string, ...interface{})  {}
func (r *recorder) Errorf(string, ...interface{}) {}
func (r *recorder) Warnf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *recorder) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fixture struct {
	store    *memory.Store
	rec      *recorder
	deps     Deps
	props    *PropertyService
	bookings *BookingService
	notes    *NotificationService
}

func newFixture(t *testing.T, policy ...Policy) *fixture {
	t.Helper()
	st := memory.New()
	rec := &recorder{}
	d := Deps{Store: st, Logger: rec, Events: rec, Media: rec, Browse: rec, Policy: DefaultPolicy}
	if len(policy) > 0 {
		d.Policy = policy[0]
	}
	return &fixture{
		store:    st,
		rec:      rec,
		deps:     d,
		props:    NewPropertyService(d),
		bookings: NewBookingService(d),
		notes:    NewNotificationService(d),
	}
}

func roomIn(name string, total int) RoomInput {
	return RoomInput{
		Name:          name,
		Type:          model.RoomSingle,
		PricePerMonth: 45000,
		Capacity:      1,
		TotalQuantity: total,
	}
}

// property creates a property owned by owner with the given rooms.
func (f *fixture) property(t *testing.T, rooms ...RoomInput) *model.Property {
	t.Helper()
	p, err := f.props.Create(context.Background(), owner, PropertyInput{
		Name:     "Maple House",
		Location: "12 College Rd",
		Rooms:    rooms,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) book(t *testing.T, who model.User, roomID uint64, qty int) *model.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), who, BookingInput{RoomID: roomID, Quantity: qty})
	require.NoError(t, err)
	return b
}

func (f *fixture) room(t *testing.T, id uint64) model.Room {
	t.Helper()
	r, err := f.store.Rooms().Get(context.Background(), id)
	require.NoError(t, err)
	return *r
}

func (f *fixture) booking(t *testing.T, id uint64) model.Booking {
	t.Helper()
	b, err := f.store.Bookings().Get(context.Background(), id)
	require.NoError(t, err)
	return *b
}

func (f *fixture) transition(who model.User, id uint64, ev model.BookingEvent) (*model.Booking, error) {
	return f.bookings.Transition(context.Background(), who, id, TransitionInput{Event: ev})
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
