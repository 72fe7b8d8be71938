package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditInventoryReportsDrift(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, roomIn("Twin", 2), roomIn("Single", 1))
	twin, single := p.Rooms[0].ID, p.Rooms[1].ID
	f.book(t, seeker, twin, 1)
	f.book(t, seeker2, single, 1)
	ctx := context.Background()

	drifts, err := AuditInventory(ctx, f.deps)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	require.NoError(t, f.store.Rooms().SetAvailable(ctx, twin, 2))
	drifts, err = AuditInventory(ctx, f.deps)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, Drift{RoomID: twin, Total: 2, Available: 2, Reserved: 1, Expected: 1}, drifts[0])

	var found bool
	for _, w := range f.rec.warnings {
		found = found || strings.Contains(w, "inventory drift")
	}
	assert.True(t, found)
}
