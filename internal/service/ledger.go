package service

import (
	"context"
	"errors"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// Reserve takes qty units of a room out of its available pool.  It locks
// the room row first, so two reservations on the same room serialize and
// the second one sees the first one's decrement.  When not enough units
// are left nothing is written and an InsufficientInventory error is
// returned.
func Reserve(ctx context.Context, rooms repository.RoomRepository, roomID uint64, qty int) (*model.Room, error) {
	if qty <= 0 {
		return nil, validationf("quantity must be positive")
	}
	room, err := rooms.GetForUpdate(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	if !room.CanReserve(qty) {
		return nil, &Error{
			Kind:    KindInsufficientInventory,
			Message: "not enough units available",
			Err:     repository.ErrInsufficientInventory,
		}
	}
	room.AvailableQuantity -= qty
	if err := rooms.SetAvailable(ctx, room.ID, room.AvailableQuantity); err != nil {
		return nil, err
	}
	return room, nil
}

// Release puts qty units back, never above the room's provisioned total.
// A room that no longer exists has nothing to give back and is not an
// error.
func Release(ctx context.Context, rooms repository.RoomRepository, roomID uint64, qty int) (*model.Room, error) {
	if qty <= 0 {
		return nil, validationf("quantity must be positive")
	}
	room, err := rooms.GetForUpdate(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	next := room.AvailableQuantity + qty
	if next > room.TotalQuantity {
		next = room.TotalQuantity
	}
	if next == room.AvailableQuantity {
		return room, nil
	}
	room.AvailableQuantity = next
	if err := rooms.SetAvailable(ctx, room.ID, next); err != nil {
		return nil, err
	}
	return room, nil
}
