package utils

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultJanitorSchedule prunes in-memory stores every five minutes.
const DefaultJanitorSchedule = "@every 5m"

// Pruner removes expired entries and reports how many were dropped.
type Pruner func(now time.Time) int

// StartJanitor schedules the pruners on a cron and starts it. Stop the returned cron on shutdown.
// Blacklist and OAuth state pruning are always included.
func StartJanitor(schedule string, extra map[string]Pruner) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultJanitorSchedule
	}
	pruners := map[string]Pruner{
		"token_blacklist": PruneBlacklist,
		"oauth_state":     PruneStates,
	}
	for name, p := range extra {
		pruners[name] = p
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runPruners(pruners, time.Now())
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func runPruners(pruners map[string]Pruner, now time.Time) {
	for name, prune := range pruners {
		if n := prune(now); n > 0 {
			Logger.Debug("pruned expired entries", zap.String("store", name), zap.Int("removed", n))
		}
	}
}
