package revocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSweeper schedules periodic removal of entries whose tokens have
// expired on their own. The caller stops the returned scheduler on shutdown.
func StartSweeper(reg Registry, spec string, l *slog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() { sweepOnce(context.Background(), reg, time.Now(), l) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func sweepOnce(ctx context.Context, reg Registry, now time.Time, l *slog.Logger) int64 {
	n, err := reg.Sweep(ctx, now)
	if err != nil {
		l.Error("revocation_sweep_failed", "error", err)
		return 0
	}
	if n > 0 {
		l.Info("revocation_sweep", "removed", n)
	}
	return n
}
