package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// RoomRepo provides CRUD operations for rooms and row-locked access to the
// inventory counter.
type RoomRepo struct {
	q querier
}

const roomColumns = `id, property_id, name, room_type, description, price_per_month_cents, capacity,
	total_quantity, available_quantity, amenities, electricity_included, cleaning_included, is_active,
	created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.PropertyID, &rm.Name, &rm.Type, &rm.Description, &rm.PricePerMonth,
		&rm.Capacity, &rm.TotalQuantity, &rm.AvailableQuantity, &rm.Amenities, &rm.ElectricityIncluded,
		&rm.CleaningIncluded, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// Create inserts rm and populates its ID and timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (property_id, name, room_type, description, price_per_month_cents, capacity,
		total_quantity, available_quantity, amenities, electricity_included, cleaning_included, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, rm.PropertyID, rm.Name, rm.Type, rm.Description, rm.PricePerMonth,
		rm.Capacity, rm.TotalQuantity, rm.AvailableQuantity, rm.Amenities, rm.ElectricityIncluded,
		rm.CleaningIncluded, rm.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.Get(ctx, uint64(id))
	if err != nil {
		return err
	}
	rm.ID, rm.CreatedAt, rm.UpdatedAt = got.ID, got.CreatedAt, got.UpdatedAt
	return nil
}

// Get returns a room by id or ErrNotFound.
func (r *RoomRepo) Get(ctx context.Context, id uint64) (*model.Room, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the room row.  This lock is the per-room exclusion
// scope of the inventory ledger: every reserve and release takes it first.
func (r *RoomRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Room, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *RoomRepo) get(ctx context.Context, id uint64, lock string) (*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?` + lock
	rm, err := scanRoom(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rm, err
}

// Update writes every mutable column including both quantities.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE rooms SET name = ?, room_type = ?, description = ?, price_per_month_cents = ?, capacity = ?,
		total_quantity = ?, available_quantity = ?, amenities = ?, electricity_included = ?, cleaning_included = ?,
		is_active = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, q, rm.Name, rm.Type, rm.Description, rm.PricePerMonth, rm.Capacity,
		rm.TotalQuantity, rm.AvailableQuantity, rm.Amenities, rm.ElectricityIncluded, rm.CleaningIncluded,
		rm.IsActive, rm.ID)
	return err
}

// SetAvailable overwrites the inventory counter.  The caller must hold the
// row lock taken by GetForUpdate.
func (r *RoomRepo) SetAvailable(ctx context.Context, id uint64, available int) error {
	_, err := r.q.ExecContext(ctx, `UPDATE rooms SET available_quantity = ? WHERE id = ?`, available, id)
	return err
}

// Delete removes the room and, through ON DELETE CASCADE, its images.
// Bookings keep their row with room_id set to NULL.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByProperty returns the rooms of a property in creation order.
func (r *RoomRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms WHERE property_id = ? ORDER BY id`, propertyID)
}

// ListByPropertyForUpdate locks every room of the property in id order.
func (r *RoomRepo) ListByPropertyForUpdate(ctx context.Context, propertyID uint64) ([]model.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms WHERE property_id = ? ORDER BY id FOR UPDATE`, propertyID)
}

// ListAll returns every room; used by the inventory audit.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
}

func (r *RoomRepo) list(ctx context.Context, q string, args ...any) ([]model.Room, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	return out, rows.Err()
}
