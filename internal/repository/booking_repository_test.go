package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/model"
)

var historyCols = []string{"id", "booking_id", "from_status", "to_status", "actor_id", "note", "created_at",
	"seeker_id", "owner_id", "property_id", "property_name", "room_id", "room_name", "quantity"}

func TestListHistoryForSeekerAfterCursor(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)FROM booking_status_history h.+JOIN bookings b ON b.id = h.booking_id.+` +
		`WHERE b.seeker_id = \? AND \(h.created_at < \? OR \(h.created_at = \? AND h.id < \?\)\) ` +
		`AND h.id = \(SELECT MIN\(h2.id\).+ORDER BY h.created_at DESC, h.id DESC.+LIMIT \?`).
		WithArgs(20, at, at, 90, 3).
		WillReturnRows(sqlmock.NewRows(historyCols).
			AddRow(88, 5, "PENDING", "APPROVED", 10, "", at.Add(-time.Minute), 20, 10, 1, "Maple House", 3, "Twin", 1).
			AddRow(80, 5, nil, "PENDING", 20, "", at.Add(-time.Hour), 20, 10, 1, "Maple House", nil, "", 1))

	rows, err := store.Bookings().ListHistory(context.Background(), HistoryQuery{
		SeekerID: 20,
		Before:   &model.HistoryCursor{At: at, ID: 90},
		Limit:    3,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.BookingApproved, rows[0].ToStatus)
	require.NotNil(t, rows[0].RoomID)
	assert.Equal(t, uint64(3), *rows[0].RoomID)
	assert.Equal(t, model.BookingStatus(""), rows[1].FromStatus)
	assert.Nil(t, rows[1].RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHistoryOwnerStatuses(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE b.owner_id = \? AND h.to_status IN \(\?, \?\)`).
		WithArgs(10, "PENDING", "CANCELLED", 50).
		WillReturnRows(sqlmock.NewRows(historyCols))

	rows, err := store.Bookings().ListHistory(context.Background(), HistoryQuery{
		OwnerID:    10,
		ToStatuses: []model.BookingStatus{model.BookingPending, model.BookingCancelled},
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHistoryNeedsViewer(t *testing.T) {
	store, _ := newMockStore(t)
	_, err := store.Bookings().ListHistory(context.Background(), HistoryQuery{})
	assert.Error(t, err)
}

func TestAppendHistoryCreation(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO booking_status_history`).
		WithArgs(5, sql.NullString{}, "PENDING", 20, "").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery(`SELECT created_at FROM booking_status_history WHERE id = \?`).
		WithArgs(31).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(at))

	h := model.BookingHistory{BookingID: 5, ToStatus: model.BookingPending, ActorID: 20}
	require.NoError(t, store.Bookings().AppendHistory(context.Background(), &h))
	assert.Equal(t, uint64(31), h.ID)
	assert.Equal(t, at, h.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerFilters(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM bookings WHERE owner_id = \? AND status = \? AND room_id = \? ORDER BY created_at DESC, id DESC`).
		WithArgs(10, "APPROVED", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Bookings().ListByOwner(context.Background(), 10, model.BookingFilter{Status: model.BookingApproved, RoomID: 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySeekerFilters(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM bookings WHERE seeker_id = \? AND property_id = \? ORDER BY created_at DESC, id DESC`).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Bookings().ListBySeeker(context.Background(), 7, model.BookingFilter{PropertyID: 2})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservedByRoom(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT room_id, (?s)SUM\(quantity\) FROM bookings.+status IN \('PENDING', 'APPROVED'\) GROUP BY room_id`).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "sum"}).AddRow(3, 2).AddRow(4, 1))

	got, err := store.Bookings().ReservedByRoom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[uint64]int{3: 2, 4: 1}, got)
}

func TestUpdateStatusMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE bookings SET status = \?, owner_note = \?, responded_at = \? WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Bookings().UpdateStatus(context.Background(), &model.Booking{ID: 8, Status: model.BookingApproved})
	assert.ErrorIs(t, err, ErrNotFound)
}
