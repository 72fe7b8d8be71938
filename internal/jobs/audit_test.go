package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/repository/memory"
	"github.com/iliyamo/dorm-booking/internal/service"
)

func TestStartAudit(t *testing.T) {
	deps := service.Deps{Store: memory.New()}

	_, err := StartAudit("not a schedule", deps)
	assert.Error(t, err)

	c, err := StartAudit("@every 1h", deps)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
