package service

import (
	"context"
	"time"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// Logger is the subset of the application logger the services use.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// BookingEvents receives committed booking changes.  Delivery is best
// effort; a failure is logged and never undoes the change.
type BookingEvents interface {
	BookingChanged(ctx context.Context, b model.Booking, h model.BookingHistory) error
}

// MediaRemover deletes media assets that are no longer referenced.
type MediaRemover interface {
	Remove(ctx context.Context, ref string) error
}

// BrowseInvalidator drops cached public listings after inventory or
// listing changes.
type BrowseInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Policy holds the tunable business rules.
type Policy struct {
	// AllowForcedCascade lets callers delete rooms that still have live
	// bookings by passing force=true; those bookings are closed first.
	AllowForcedCascade bool
	// NotificationPageSize is the default feed page size.
	NotificationPageSize int
	// MaxNotificationPageSize caps a caller supplied page size.
	MaxNotificationPageSize int
}

// DefaultPolicy is what LoadBookingPolicy yields with no overrides.  Zero
// page sizes in Deps.Policy fall back to its values; the cascade flag is
// taken as given.
var DefaultPolicy = Policy{AllowForcedCascade: true, NotificationPageSize: 20, MaxNotificationPageSize: 100}

// Deps carries the collaborators shared by every service.  Store is
// required; the rest are optional.
type Deps struct {
	Store  repository.Store
	Logger Logger
	Events BookingEvents
	Media  MediaRemover
	Browse BrowseInvalidator
	Policy Policy
	Now    func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Store == nil {
		panic("service: nil store")
	}
	if d.Logger == nil {
		d.Logger = nopLogger{}
	}
	if d.Policy.NotificationPageSize <= 0 {
		d.Policy.NotificationPageSize = DefaultPolicy.NotificationPageSize
	}
	if d.Policy.MaxNotificationPageSize < d.Policy.NotificationPageSize {
		d.Policy.MaxNotificationPageSize = d.Policy.NotificationPageSize
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

type bookingChange struct {
	booking model.Booking
	history model.BookingHistory
}

// effects collects the work that may only happen after a transaction has
// committed.  A fresh value is built on every transaction attempt.
type effects struct {
	changes      []bookingChange
	removedMedia []string
	listings     bool
}

func (e *effects) booking(b model.Booking, h model.BookingHistory) {
	e.changes = append(e.changes, bookingChange{booking: b, history: h})
	e.listings = true
}

func (e *effects) media(refs ...string) {
	for _, r := range refs {
		if r != "" {
			e.removedMedia = append(e.removedMedia, r)
		}
	}
}

// apply runs the collected effects.  Failures are logged only.
func (d Deps) apply(ctx context.Context, e *effects) {
	if e == nil {
		return
	}
	if d.Events != nil {
		for _, c := range e.changes {
			if err := d.Events.BookingChanged(ctx, c.booking, c.history); err != nil {
				d.Logger.Warnf("booking %d: publish %s event: %v", c.booking.ID, c.history.ToStatus, err)
			}
		}
	}
	if d.Media != nil {
		for _, ref := range e.removedMedia {
			if err := d.Media.Remove(ctx, ref); err != nil {
				d.Logger.Warnf("remove media %q: %v", ref, err)
			}
		}
	}
	if d.Browse != nil && e.listings {
		if err := d.Browse.Invalidate(ctx); err != nil {
			d.Logger.Warnf("invalidate browse cache: %v", err)
		}
	}
}
