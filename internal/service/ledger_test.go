package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAndRelease(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, roomIn("Twin", 3))
	roomID := p.Rooms[0].ID
	rooms := f.store.Rooms()
	ctx := context.Background()

	r, err := Reserve(ctx, rooms, roomID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, r.AvailableQuantity)

	_, err = Reserve(ctx, rooms, roomID, 2)
	requireKind(t, err, KindInsufficientInventory)
	assert.Equal(t, 1, f.room(t, roomID).AvailableQuantity)

	_, err = Reserve(ctx, rooms, roomID, 0)
	requireKind(t, err, KindValidation)

	r, err = Release(ctx, rooms, roomID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, r.AvailableQuantity)
}

func TestReleaseClampsAtTotal(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, roomIn("Twin", 2))
	roomID := p.Rooms[0].ID

	r, err := Release(context.Background(), f.store.Rooms(), roomID, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, r.AvailableQuantity)
	assert.Equal(t, 2, f.room(t, roomID).AvailableQuantity)
}

func TestReleaseOnMissingRoomIsNoop(t *testing.T) {
	f := newFixture(t)
	r, err := Release(context.Background(), f.store.Rooms(), 999, 1)
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestReserveMissingRoom(t *testing.T) {
	f := newFixture(t)
	_, err := Reserve(context.Background(), f.store.Rooms(), 999, 1)
	requireKind(t, err, KindNotFound)
}
