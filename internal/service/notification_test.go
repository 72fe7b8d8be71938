package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/model"
)

func entry(id, booking uint64, from, to model.BookingStatus) model.HistoryEntry {
	room := uint64(3)
	return model.HistoryEntry{
		BookingHistory: model.BookingHistory{
			ID:         id,
			BookingID:  booking,
			FromStatus: from,
			ToStatus:   to,
			ActorID:    owner.ID,
			CreatedAt:  time.Date(2026, 3, 1, 12, 0, int(id), 0, time.UTC),
		},
		SeekerID:     seeker.ID,
		OwnerID:      owner.ID,
		PropertyID:   1,
		PropertyName: "Maple House",
		RoomID:       &room,
		RoomName:     "Twin",
		Quantity:     2,
	}
}

func TestDeriveKeepsEarliestRowPerTransition(t *testing.T) {
	rows := []model.HistoryEntry{
		entry(7, 1, model.BookingPending, model.BookingApproved),
		entry(5, 1, model.BookingPending, model.BookingApproved),
		entry(2, 1, "", model.BookingPending),
	}
	got := Derive(seeker, rows, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "1:APPROVED", got[0].ID)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC), got[0].OccurredAt)
	assert.Equal(t, model.NotifyBookingCreated, got[1].Kind)
	assert.Equal(t, "Your booking request for Twin at Maple House (2 units) was sent", got[1].Message)
}

func TestDeriveSkipsMalformedRows(t *testing.T) {
	rec := &recorder{}
	rows := []model.HistoryEntry{
		entry(4, 3, model.BookingApproved, model.BookingPending),
		entry(3, 1, model.BookingCancelled, model.BookingApproved),
		entry(2, 2, "", "LOST"),
		entry(1, 1, "", model.BookingPending),
	}
	got := Derive(seeker, rows, rec)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotifyBookingCreated, got[0].Kind)
	assert.Len(t, rec.warnings, 3)
}

func TestDeriveOwnerView(t *testing.T) {
	rows := []model.HistoryEntry{
		entry(3, 1, model.BookingApproved, model.BookingCancelled),
		entry(2, 1, model.BookingPending, model.BookingApproved),
		entry(1, 1, "", model.BookingPending),
	}
	got := Derive(owner, rows, nil)
	require.Len(t, got, 2)
	assert.Equal(t, model.NotifyBookingCancelled, got[0].Kind)
	assert.Equal(t, "Booking for Twin at Maple House was cancelled", got[0].Message)
	assert.Equal(t, model.NotifyBookingCreated, got[1].Kind)

	assert.Empty(t, Derive(otherOwner, rows, nil))
	assert.Empty(t, Derive(seeker2, rows, nil))
}

func TestNotificationPagination(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, roomIn("Dorm", 5))
	var want []uint64
	for i := 0; i < 5; i++ {
		want = append([]uint64{f.book(t, seeker, p.Rooms[0].ID, 1).ID}, want...)
	}
	ctx := context.Background()

	var (
		got    []uint64
		cursor string
		pages  int
	)
	for {
		page, err := f.notes.List(ctx, seeker, cursor, 2)
		require.NoError(t, err)
		pages++
		assert.LessOrEqual(t, len(page.Items), 2)
		for _, n := range page.Items {
			got = append(got, n.BookingID)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
		require.Less(t, pages, 10)
	}
	assert.Equal(t, 3, pages)
	assert.Equal(t, want, got)
}

func TestNotificationFeedIsolation(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, roomIn("Twin", 2))
	b := f.book(t, seeker, p.Rooms[0].ID, 1)
	_, err := f.transition(owner, b.ID, model.EventApprove)
	require.NoError(t, err)
	ctx := context.Background()

	for _, who := range []model.User{seeker2, otherOwner} {
		page, err := f.notes.List(ctx, who, "", 0)
		require.NoError(t, err)
		assert.Empty(t, page.Items, "user %d", who.ID)
	}

	_, err = f.notes.List(ctx, model.User{ID: 1, Role: "ADMIN"}, "", 0)
	requireKind(t, err, KindForbidden)
}

func TestNotificationFeedSkipsPlantedRows(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, roomIn("Twin", 2))
	b := f.book(t, seeker, p.Rooms[0].ID, 1)
	f.store.AppendRawHistory(model.BookingHistory{BookingID: b.ID, FromStatus: model.BookingPending, ToStatus: "LOST", CreatedAt: time.Now().UTC()})

	page, err := f.notes.List(context.Background(), seeker, "", 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.NotifyBookingCreated, page.Items[0].Kind)
	assert.Len(t, f.rec.warnings, 1)
}

func TestCursorRoundTrip(t *testing.T) {
	c := model.HistoryCursor{At: time.Date(2026, 5, 4, 3, 2, 1, 987654321, time.UTC), ID: 42}
	got, err := DecodeCursor(EncodeCursor(c))
	require.NoError(t, err)
	assert.True(t, c.At.Equal(got.At))
	assert.Equal(t, c.ID, got.ID)

	for _, bad := range []string{"%%%", "bm9jb2xvbg", "MTIzOmFiYw"} {
		_, err := DecodeCursor(bad)
		requireKind(t, err, KindValidation)
	}

	f := newFixture(t)
	_, err = f.notes.List(context.Background(), seeker, "garbage!", 0)
	requireKind(t, err, KindValidation)
}
