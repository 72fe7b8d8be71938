package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// PropertyRepo provides CRUD operations for properties.  Child rooms and
// images are loaded by their own repositories.
type PropertyRepo struct {
	q querier
}

const propertyColumns = `id, owner_id, name, location, description, cover_image, amenities,
	electricity_included, cleaning_included, is_active, created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }) (*model.Property, error) {
	var p model.Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Location, &p.Description, &p.CoverImage,
		&p.Amenities, &p.ElectricityIncluded, &p.CleaningIncluded, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts p and reads the row back to populate ID and timestamps.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const q = `INSERT INTO properties (owner_id, name, location, description, cover_image, amenities,
		electricity_included, cleaning_included, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, p.OwnerID, p.Name, p.Location, p.Description, p.CoverImage,
		p.Amenities, p.ElectricityIncluded, p.CleaningIncluded, p.IsActive)
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
	p.ID, p.CreatedAt, p.UpdatedAt = got.ID, got.CreatedAt, got.UpdatedAt
	return nil
}

// Get returns a property by id or ErrNotFound.
func (r *PropertyRepo) Get(ctx context.Context, id uint64) (*model.Property, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate is Get with a row lock held until the transaction ends.
func (r *PropertyRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Property, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PropertyRepo) get(ctx context.Context, id uint64, lock string) (*model.Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?` + lock
	p, err := scanProperty(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// Update writes every mutable column of p.  Owner and timestamps are not
// touched; updated_at is maintained by MySQL.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	const q = `UPDATE properties SET name = ?, location = ?, description = ?, cover_image = ?, amenities = ?,
		electricity_included = ?, cleaning_included = ?, is_active = ? WHERE id = ?`
	// MySQL reports 0 affected rows when nothing changed, so existence is
	// established by the caller's locked read instead of RowsAffected.
	_, err := r.q.ExecContext(ctx, q, p.Name, p.Location, p.Description, p.CoverImage, p.Amenities,
		p.ElectricityIncluded, p.CleaningIncluded, p.IsActive, p.ID)
	return err
}

// Delete removes the property; rooms and images go with it through
// ON DELETE CASCADE.
func (r *PropertyRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the owner's properties, newest first.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = ? ORDER BY id DESC`
	return r.list(ctx, q, ownerID)
}

// ListActive returns active properties matching f, newest first.
func (r *PropertyRepo) ListActive(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	var (
		where = []string{"is_active = 1"}
		args  []any
	)
	if s := strings.TrimSpace(f.Query); s != "" {
		where = append(where, "(name LIKE ? OR location LIKE ?)")
		like := "%" + escapeLike(s) + "%"
		args = append(args, like, like)
	}
	if f.ElectricityIncluded != nil {
		where = append(where, "electricity_included = ?")
		args = append(args, *f.ElectricityIncluded)
	}
	if f.CleaningIncluded != nil {
		where = append(where, "cleaning_included = ?")
		args = append(args, *f.CleaningIncluded)
	}
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id DESC`
	return r.list(ctx, q, args...)
}

func (r *PropertyRepo) list(ctx context.Context, q string, args ...any) ([]model.Property, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
