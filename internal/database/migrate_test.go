package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	body := `-- rooms
CREATE TABLE a (
  id INT
);

-- trailing comment
CREATE INDEX ix ON a (id);
INSERT INTO a VALUES (1)`

	got := splitStatements(body)
	require.Len(t, got, 3)
	assert.True(t, strings.HasPrefix(got[0], "CREATE TABLE a ("))
	assert.False(t, strings.HasSuffix(got[0], ";"))
	assert.Equal(t, "CREATE INDEX ix ON a (id)", got[1])
	assert.Equal(t, "INSERT INTO a VALUES (1)", got[2])
}

func TestEmbeddedSchemaSplits(t *testing.T) {
	body, err := schemaFS.ReadFile("schema/0001_init.sql")
	require.NoError(t, err)
	stmts := splitStatements(string(body))
	require.NotEmpty(t, stmts)

	all := strings.Join(stmts, "\n")
	for _, want := range []string{"properties", "rooms", "bookings", "booking_status_history"} {
		assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+want+" (")
	}
}
