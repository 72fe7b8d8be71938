package service

import (
	"context"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// Drift is a room whose counter disagrees with its live bookings.
type Drift struct {
	RoomID    uint64 `json:"room_id"`
	Total     int    `json:"total_quantity"`
	Available int    `json:"available_quantity"`
	Reserved  int    `json:"reserved_by_bookings"`
	Expected  int    `json:"expected_available"`
}

// AuditInventory compares every room's available_quantity with
// total_quantity minus the units held by PENDING and APPROVED bookings.
// It only reports; nothing is corrected.
func AuditInventory(ctx context.Context, d Deps) ([]Drift, error) {
	d = d.withDefaults()
	rooms, err := d.Store.Rooms().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reserved, err := d.Store.Bookings().ReservedByRoom(ctx)
	if err != nil {
		return nil, err
	}
	var out []Drift
	for _, r := range rooms {
		if dr, ok := drift(r, reserved[r.ID]); ok {
			d.Logger.Warnf("inventory drift: room %d available=%d expected=%d (total=%d reserved=%d)",
				dr.RoomID, dr.Available, dr.Expected, dr.Total, dr.Reserved)
			out = append(out, dr)
		}
	}
	d.Logger.Infof("inventory audit: %d rooms checked, %d drifted", len(rooms), len(out))
	return out, nil
}

func drift(r model.Room, reserved int) (Drift, bool) {
	expected := r.TotalQuantity - reserved
	if expected < 0 {
		expected = 0
	}
	if expected == r.AvailableQuantity {
		return Drift{}, false
	}
	return Drift{RoomID: r.ID, Total: r.TotalQuantity, Available: r.AvailableQuantity, Reserved: reserved, Expected: expected}, true
}
