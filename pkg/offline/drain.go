package offline

import (
	"context"
	"log/slog"
	"time"
)

// replayOutcome classifies one replay attempt against the queue policy.
type replayOutcome int

const (
	// outcomeDelivered: the server accepted the mutation.
	outcomeDelivered replayOutcome = iota
	// outcomeDropped: the server rejected it permanently; retrying cannot help.
	outcomeDropped
	// outcomeRetry: transient failure; the mutation stays queued.
	outcomeRetry
)

// classify maps a replay result onto the queue policy: 2xx clears the
// mutation, any 4xx is terminal and drops it, everything else (network
// errors, 5xx) retries up to the ceiling.
func classify(status int, err error) replayOutcome {
	switch {
	case err != nil:
		return outcomeRetry
	case status >= 200 && status < 300:
		return outcomeDelivered
	case status >= 400 && status < 500:
		return outcomeDropped
	default:
		return outcomeRetry
	}
}

// drainLoop is the single goroutine that ever replays mutations. It wakes on
// the connectivity-restored signal and on the poll ticker, so a queued write
// is never in flight twice and replay order holds.
func (c *Client) drainLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-c.notify:
		case <-ticker.C:
		}
		c.drain()
	}
}

// drain runs replay passes until the queue empties or goes idle. When a pass
// leaves mutations queued, the next one is scheduled after an exponential
// backoff before the loop returns to the regular poll cadence.
func (c *Client) drain() {
	backoff := c.backoffBase
	for c.drainPass() {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.backoffCap {
			backoff = c.backoffCap
		}
	}
}

// drainPass replays queued mutations strictly in FIFO order, one at a time.
// It stops at the first retryable failure: skipping past the head would
// reorder the replay. It reports whether mutations remain queued. While
// offline mode is forced the pass does nothing; attempts would only burn
// retry budget, and SetOffline(false) wakes the loop anyway.
func (c *Client) drainPass() bool {
	ctx := context.Background()

	for {
		if c.offline.Load() {
			return false
		}

		m, err := c.store.NextPending(ctx)
		if err != nil {
			c.logger.Error("Failed to read mutation queue", slog.String("error", err.Error()))
			return false
		}
		if m == nil {
			return false
		}

		status, body, err := c.send(ctx, m.Method, m.Target, m.Headers, m.Body)

		switch classify(status, err) {
		case outcomeDelivered:
			// Invalidate before clearing the queue row: re-replaying after a
			// crash between the two is harmless, serving a stale snapshot is
			// not.
			c.invalidateFor(ctx, m.Method, m.Target)
			if derr := c.store.DeletePending(ctx, m.ID); derr != nil {
				c.logger.Error("Failed to clear replayed mutation", slog.Int64("mutation_id", m.ID), slog.String("error", derr.Error()))
				return false
			}
			c.logger.Info("Replayed queued mutation",
				slog.Int64("mutation_id", m.ID), slog.String("method", m.Method),
				slog.String("target", m.Target), slog.Int("status", status))

		case outcomeDropped:
			if derr := c.store.DeletePending(ctx, m.ID); derr != nil {
				c.logger.Error("Failed to clear rejected mutation", slog.Int64("mutation_id", m.ID), slog.String("error", derr.Error()))
				return false
			}
			c.logger.Warn("Dropped queued mutation after terminal response",
				slog.Int64("mutation_id", m.ID), slog.String("method", m.Method),
				slog.String("target", m.Target), slog.Int("status", status),
				slog.String("response", string(body)))

		case outcomeRetry:
			count, berr := c.store.BumpRetry(ctx, m.ID)
			if berr != nil {
				c.logger.Error("Failed to record retry", slog.Int64("mutation_id", m.ID), slog.String("error", berr.Error()))
				return false
			}
			if count >= c.maxAttempts {
				if derr := c.store.DeletePending(ctx, m.ID); derr != nil {
					c.logger.Error("Failed to clear exhausted mutation", slog.Int64("mutation_id", m.ID), slog.String("error", derr.Error()))
					return false
				}
				c.logger.Warn("Dropped queued mutation after retry ceiling",
					slog.Int64("mutation_id", m.ID), slog.String("method", m.Method),
					slog.String("target", m.Target), slog.Int("attempts", count))
				continue
			}
			if err != nil {
				c.logger.Warn("Replay failed, mutation kept queued",
					slog.Int64("mutation_id", m.ID), slog.Int("attempts", count), slog.String("error", err.Error()))
			} else {
				c.logger.Warn("Replay failed, mutation kept queued",
					slog.Int64("mutation_id", m.ID), slog.Int("attempts", count), slog.Int("status", status))
			}
			return true
		}
	}
}
