package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// BookingRepo persists bookings and the booking_status_history trail the
// notification feeds are derived from.
type BookingRepo struct {
	q querier
}

const bookingColumns = `id, seeker_id, room_id, property_id, owner_id, quantity, status, message,
	move_in_date, move_out_date, owner_note, responded_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var (
		b         model.Booking
		roomID    sql.NullInt64
		moveIn    sql.NullTime
		moveOut   sql.NullTime
		responded sql.NullTime
	)
	err := row.Scan(&b.ID, &b.SeekerID, &roomID, &b.PropertyID, &b.OwnerID, &b.Quantity, &b.Status,
		&b.Message, &moveIn, &moveOut, &b.OwnerNote, &responded, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if roomID.Valid {
		id := uint64(roomID.Int64)
		b.RoomID = &id
	}
	b.MoveInDate = timePtr(moveIn)
	b.MoveOutDate = timePtr(moveOut)
	b.RespondedAt = timePtr(responded)
	return &b, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts b and populates its ID and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (seeker_id, room_id, property_id, owner_id, quantity, status, message,
		move_in_date, move_out_date, owner_note) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, b.SeekerID, b.RoomID, b.PropertyID, b.OwnerID, b.Quantity, b.Status,
		b.Message, nullTime(b.MoveInDate), nullTime(b.MoveOutDate), b.OwnerNote)
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
	*b = *got
	return nil
}

// Get returns a booking by id or ErrNotFound.
func (r *BookingRepo) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the booking row so its status can be re-read and
// changed without racing another transition.
func (r *BookingRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *BookingRepo) get(ctx context.Context, id uint64, lock string) (*model.Booking, error) {
	b, err := scanBooking(r.q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// UpdateStatus writes the status, owner note and response time of b.
func (r *BookingRepo) UpdateStatus(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings SET status = ?, owner_note = ?, responded_at = ? WHERE id = ?`
	res, err := r.q.ExecContext(ctx, q, b.Status, b.OwnerNote, nullTime(b.RespondedAt), b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySeeker returns a seeker's bookings, newest first.
func (r *BookingRepo) ListBySeeker(ctx context.Context, seekerID uint64, f model.BookingFilter) ([]model.Booking, error) {
	return r.listFiltered(ctx, "seeker_id", seekerID, f)
}

// ListByOwner returns bookings on the owner's rooms, newest first.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64, f model.BookingFilter) ([]model.Booking, error) {
	return r.listFiltered(ctx, "owner_id", ownerID, f)
}

func (r *BookingRepo) listFiltered(ctx context.Context, party string, id uint64, f model.BookingFilter) ([]model.Booking, error) {
	where := []string{party + " = ?"}
	args := []any{id}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.PropertyID != 0 {
		where = append(where, "property_id = ?")
		args = append(args, f.PropertyID)
	}
	if f.RoomID != 0 {
		where = append(where, "room_id = ?")
		args = append(args, f.RoomID)
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, args...)
}

// ListActiveByRoomForUpdate locks the room's PENDING and APPROVED bookings.
func (r *BookingRepo) ListActiveByRoomForUpdate(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE room_id = ? AND status IN ('PENDING', 'APPROVED') ORDER BY id FOR UPDATE`
	return r.list(ctx, q, roomID)
}

// ReservedByRoom sums the quantity held by non-terminal bookings per room.
func (r *BookingRepo) ReservedByRoom(ctx context.Context) (map[uint64]int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT room_id, SUM(quantity) FROM bookings
		WHERE room_id IS NOT NULL AND status IN ('PENDING', 'APPROVED') GROUP BY room_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[uint64]int{}
	for rows.Next() {
		var (
			roomID uint64
			qty    int
		)
		if err := rows.Scan(&roomID, &qty); err != nil {
			return nil, err
		}
		out[roomID] = qty
	}
	return out, rows.Err()
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// AppendHistory records one status change.  Rows are never updated.
func (r *BookingRepo) AppendHistory(ctx context.Context, h *model.BookingHistory) error {
	var from sql.NullString
	if h.FromStatus != "" {
		from = sql.NullString{String: string(h.FromStatus), Valid: true}
	}
	res, err := r.q.ExecContext(ctx, `INSERT INTO booking_status_history (booking_id, from_status, to_status, actor_id, note)
		VALUES (?, ?, ?, ?, ?)`, h.BookingID, from, h.ToStatus, h.ActorID, h.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return r.q.QueryRowContext(ctx, `SELECT created_at FROM booking_status_history WHERE id = ?`, h.ID).Scan(&h.CreatedAt)
}

// ListHistory returns history rows for one viewer, newest first.  When the
// same (booking, to_status) pair was recorded more than once only the
// earliest row is returned.
func (r *BookingRepo) ListHistory(ctx context.Context, hq HistoryQuery) ([]model.HistoryEntry, error) {
	var (
		where []string
		args  []any
	)
	switch {
	case hq.SeekerID != 0:
		where = append(where, "b.seeker_id = ?")
		args = append(args, hq.SeekerID)
	case hq.OwnerID != 0:
		where = append(where, "b.owner_id = ?")
		args = append(args, hq.OwnerID)
	default:
		return nil, errors.New("history query needs a seeker or owner")
	}
	if len(hq.ToStatuses) > 0 {
		marks := make([]string, len(hq.ToStatuses))
		for i, s := range hq.ToStatuses {
			marks[i] = "?"
			args = append(args, s)
		}
		where = append(where, "h.to_status IN ("+strings.Join(marks, ", ")+")")
	}
	if hq.Before != nil {
		where = append(where, "(h.created_at < ? OR (h.created_at = ? AND h.id < ?))")
		args = append(args, hq.Before.At, hq.Before.At, hq.Before.ID)
	}
	where = append(where, `h.id = (SELECT MIN(h2.id) FROM booking_status_history h2
		WHERE h2.booking_id = h.booking_id AND h2.to_status = h.to_status)`)
	limit := hq.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	q := `SELECT h.id, h.booking_id, h.from_status, h.to_status, h.actor_id, h.note, h.created_at,
		b.seeker_id, b.owner_id, b.property_id, COALESCE(p.name, ''), b.room_id, COALESCE(rm.name, ''), b.quantity
		FROM booking_status_history h
		JOIN bookings b ON b.id = h.booking_id
		LEFT JOIN rooms rm ON rm.id = b.room_id
		LEFT JOIN properties p ON p.id = b.property_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT ?`

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.HistoryEntry{}
	for rows.Next() {
		var (
			e      model.HistoryEntry
			from   sql.NullString
			to     string
			roomID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.BookingID, &from, &to, &e.ActorID, &e.Note, &e.CreatedAt,
			&e.SeekerID, &e.OwnerID, &e.PropertyID, &e.PropertyName, &roomID, &e.RoomName, &e.Quantity); err != nil {
			return nil, err
		}
		e.FromStatus = model.BookingStatus(from.String)
		e.ToStatus = model.BookingStatus(to)
		if roomID.Valid {
			id := uint64(roomID.Int64)
			e.RoomID = &id
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
