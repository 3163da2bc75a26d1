package app

import (
	"context"
	"time"

	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/session"
)

const (
	defaultPollInterval = time.Second
	fetchTimeout        = 5 * time.Second
)

// UpdateFunc observes the session after every applied event.
type UpdateFunc func(st *session.State, eff session.Effects)

// StartPoller launches a background goroutine that owns st and drives it at
// a fixed cadence. Fetches run inline, so at most one is ever in flight. The
// returned channel is closed when ctx is cancelled and the loop has exited.
func StartPoller(ctx context.Context, st *session.State, fetcher logsapi.Fetcher, interval time.Duration, onUpdate UpdateFunc) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		drive(ctx, st, fetcher, st.Start(), onUpdate)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				drive(ctx, st, fetcher, st.Dispatch(session.TickElapsed{}), onUpdate)
			}
		}
	}()
	return done
}

// drive carries out eff and any fetches that follow from it.
func drive(ctx context.Context, st *session.State, fetcher logsapi.Fetcher, eff session.Effects, onUpdate UpdateFunc) {
	for {
		if onUpdate != nil {
			onUpdate(st, eff)
		}
		if eff.Fetch == nil || ctx.Err() != nil {
			return
		}

		req := *eff.Fetch
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		batch, err := fetcher.FetchLogs(fetchCtx, req.Query)
		cancel()
		if ctx.Err() != nil {
			return
		}
		eff = st.Dispatch(session.FetchCompleted{
			Generation: req.Generation,
			Batch:      batch,
			Err:        err,
		})
	}
}
