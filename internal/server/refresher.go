package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"

	"github.com/mkowalik/carscout/internal/ingest"
)

// Refresher re-imports the CSV dump on a cron schedule so a long-running
// instance picks up fresh scrapes. The redis lock keeps multiple instances
// from reseeding the same table at once.
type Refresher struct {
	Seeder   *ingest.Seeder
	CSVPath  string
	Limit    int
	CronSpec string
	Rdb      *redis.Client
	Stop     chan struct{}

	lastRun *time.Time
}

func (r *Refresher) Start() {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-r.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
}

func (r *Refresher) tick() {
	ctx := context.Background()
	if !isDue(r.CronSpec, r.lastRun) {
		return
	}
	if r.Rdb != nil {
		ok, _ := r.Rdb.SetNX(ctx, "ingest:refresh:lock", "1", 10*time.Minute).Result()
		if !ok {
			return
		}
		defer r.Rdb.Del(ctx, "ingest:refresh:lock")
	}

	refreshTotal.Inc()
	if _, err := r.Seeder.Run(ctx, r.CSVPath, r.Limit); err != nil {
		// Unlike at startup, a failed refresh keeps the previous data.
		log.Printf("[REFRESH] %v", err)
		return
	}
	now := time.Now()
	r.lastRun = &now
}

// isDue determines whether a refresh with cronSpec should run now given the
// last run time. Supports "@daily", "@hourly", and 5-field cron expressions.
func isDue(cronSpec string, last *time.Time) bool {
	now := time.Now()
	switch cronSpec {
	case "@daily":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= 24*time.Hour
	case "@hourly":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			// Fallback: treat as @daily if invalid
			if last == nil {
				return true
			}
			return now.Sub(*last) >= 24*time.Hour
		}
		if last == nil {
			return true
		}
		next := expr.Next(*last)
		return !next.After(now)
	}
}
