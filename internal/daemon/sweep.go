package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"telenovela/internal/logging"
)

// startSweep schedules the periodic scan that logs generation work left
// in the generating state past the configured threshold. The sweep only
// reports; resets stay an operator decision through the recovery API.
func (d *Daemon) startSweep(ctx context.Context) error {
	interval := d.cfg.SweepInterval()
	if interval <= 0 {
		return nil
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := c.AddFunc(spec, func() { d.sweepOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule stuck sweep: %w", err)
	}
	c.Start()
	d.cron = c
	return nil
}

func (d *Daemon) stopSweep() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
		d.cron = nil
	}
}

func (d *Daemon) sweepOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	logger := d.logger.With(logging.FieldComponent, "stuck-sweep")

	projects, err := d.store.ListProjects(ctx)
	if err != nil {
		logger.Error("sweep failed to list projects", slog.String("error", err.Error()))
		return
	}
	threshold := d.cfg.StuckThreshold()
	for _, project := range projects {
		stuck, err := d.store.StuckEntities(ctx, project.ID, threshold)
		if err != nil {
			logger.Error("sweep failed",
				slog.String(logging.FieldProjectID, project.ID),
				slog.String("error", err.Error()))
			continue
		}
		for _, entity := range stuck {
			logger.Warn("entity stuck in generating state",
				slog.String(logging.FieldProjectID, project.ID),
				slog.String(logging.FieldEntityKind, string(entity.Kind)),
				slog.String(logging.FieldEntityID, entity.ID),
				slog.Time("created_at", entity.CreatedAt))
		}
	}
}
