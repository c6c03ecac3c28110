package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	svc "github.com/hopebridge/intake/internal/services"
)

// Start schedules the background maintenance jobs.
func Start() *cron.Cron {
	c := cron.New()

	// Sweep expired password-reset tokens every night at 03:15.
	_, _ = c.AddFunc("15 3 * * *", func() {
		n, err := svc.PurgeExpiredResets()
		if err != nil {
			zap.L().Error("reset token sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			zap.L().Info("purged expired reset tokens", zap.Int64("count", n))
		}
	})

	c.Start()
	return c
}
