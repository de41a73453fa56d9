package cache

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StartSweeper schedules the periodic in-memory TTL sweep (spec §4.7
// "a simple bounded map with periodic TTL sweep is sufficient") every
// five minutes. The returned cron.Cron is already running; callers
// should Stop() it on shutdown.
func StartSweeper(c *Cache, log zerolog.Logger) *cron.Cron {
	sched := cron.New()
	_, err := sched.AddFunc("@every 5m", func() {
		removed := c.SweepExpired()
		if removed > 0 {
			log.Info().Str("component", "cache").Int("removed", removed).Msg("swept expired cache entries")
		}
	})
	if err != nil {
		log.Error().Str("component", "cache").Err(err).Msg("failed to schedule cache sweep")
		return sched
	}
	sched.Start()
	return sched
}
