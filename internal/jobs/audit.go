// Package jobs runs the scheduled maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/dorm-booking/internal/service"
)

// StartAudit schedules the inventory audit on spec (standard cron syntax or
// descriptors such as "@every 1h").  The returned cron is already running;
// Stop it on shutdown.
func StartAudit(spec string, deps service.Deps) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := service.AuditInventory(ctx, deps); err != nil && deps.Logger != nil {
			deps.Logger.Errorf("inventory audit: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule audit %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
