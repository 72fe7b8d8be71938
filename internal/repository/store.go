package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// PropertyRepository persists properties without their child collections.
// The ForUpdate variants must be called inside a transaction and lock the
// row until it ends.
type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) error
	Get(ctx context.Context, id uint64) (*model.Property, error)
	GetForUpdate(ctx context.Context, id uint64) (*model.Property, error)
	Update(ctx context.Context, p *model.Property) error
	Delete(ctx context.Context, id uint64) error
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error)
	ListActive(ctx context.Context, f model.PropertyFilter) ([]model.Property, error)
}

// RoomRepository persists rooms.  Update writes every mutable column,
// SetAvailable only the inventory counter.
type RoomRepository interface {
	Create(ctx context.Context, r *model.Room) error
	Get(ctx context.Context, id uint64) (*model.Room, error)
	GetForUpdate(ctx context.Context, id uint64) (*model.Room, error)
	Update(ctx context.Context, r *model.Room) error
	SetAvailable(ctx context.Context, id uint64, available int) error
	Delete(ctx context.Context, id uint64) error
	ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error)
	ListByPropertyForUpdate(ctx context.Context, propertyID uint64) ([]model.Room, error)
	ListAll(ctx context.Context) ([]model.Room, error)
}

// ImageRepository persists both image collections.
type ImageRepository interface {
	ListPropertyImages(ctx context.Context, propertyID uint64) ([]model.PropertyImage, error)
	CreatePropertyImage(ctx context.Context, img *model.PropertyImage) error
	UpdatePropertyImage(ctx context.Context, img *model.PropertyImage) error
	DeletePropertyImage(ctx context.Context, id uint64) error
	ListRoomImages(ctx context.Context, roomID uint64) ([]model.RoomImage, error)
	CreateRoomImage(ctx context.Context, img *model.RoomImage) error
	UpdateRoomImage(ctx context.Context, img *model.RoomImage) error
	DeleteRoomImage(ctx context.Context, id uint64) error
}

// HistoryQuery selects status-history rows for a notification feed.
// Exactly one of SeekerID or OwnerID is set.  Rows come back newest first
// and at most one row per (booking, to_status) pair is returned, the
// earliest one recorded.
type HistoryQuery struct {
	SeekerID   uint64
	OwnerID    uint64
	ToStatuses []model.BookingStatus // empty means any
	Before     *model.HistoryCursor  // exclusive
	Limit      int
}

// BookingRepository persists bookings and their append-only history.
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id uint64) (*model.Booking, error)
	GetForUpdate(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, b *model.Booking) error
	ListBySeeker(ctx context.Context, seekerID uint64, f model.BookingFilter) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID uint64, f model.BookingFilter) ([]model.Booking, error)
	ListActiveByRoomForUpdate(ctx context.Context, roomID uint64) ([]model.Booking, error)
	ReservedByRoom(ctx context.Context) (map[uint64]int, error)
	AppendHistory(ctx context.Context, h *model.BookingHistory) error
	ListHistory(ctx context.Context, q HistoryQuery) ([]model.HistoryEntry, error)
}

// Repos groups the repositories bound to one connection or transaction.
type Repos interface {
	Properties() PropertyRepository
	Rooms() RoomRepository
	Images() ImageRepository
	Bookings() BookingRepository
}

// Store is the unit-of-work boundary used by the service layer.  Reads
// that need no locking go through the embedded Repos; every mutation runs
// in InTx.  fn may be invoked more than once when the engine retries a
// transaction that lost a deadlock, so it must not leak side effects.
type Store interface {
	Repos
	InTx(ctx context.Context, fn func(tx Repos) error) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type boundRepos struct{ q querier }

func (b boundRepos) Properties() PropertyRepository { return &PropertyRepo{q: b.q} }
func (b boundRepos) Rooms() RoomRepository           { return &RoomRepo{q: b.q} }
func (b boundRepos) Images() ImageRepository         { return &ImageRepo{q: b.q} }
func (b boundRepos) Bookings() BookingRepository     { return &BookingRepo{q: b.q} }
