package chathub

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Reaper periodically sweeps the coordinator for waiting entries and pairs
// whose endpoints went away without a disconnect event reaching us. It runs
// on a fixed interval independent of traffic.
type Reaper struct {
	coordinator *Coordinator
	interval    time.Duration
	wg          sync.WaitGroup
}

func NewReaper(co *Coordinator, interval time.Duration) *Reaper {
	return &Reaper{coordinator: co, interval: interval}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		log.Info().Str("module", "chathub.reaper").Dur("interval", r.interval).Msg("reaper started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Str("module", "chathub.reaper").Msg("reaper stopped")
				return
			case <-ticker.C:
				waiting, pairs := r.coordinator.Sweep()
				if waiting > 0 || pairs > 0 {
					log.Info().Str("module", "chathub.reaper").
						Int("waiting_removed", waiting).Int("pairs_removed", pairs).
						Msg("swept stale state")
				}
			}
		}
	}()
}

// Wait blocks until the sweep loop has exited.
func (r *Reaper) Wait() {
	r.wg.Wait()
}
