// Package quota enforces the per-client daily request ceiling. The gate reads
// the current count, checks it against the limit, and records the attempt as
// two separate store operations: concurrent requests from one client may both
// read the same pre-increment count, so limited over-admission is an accepted
// bound, not a bug.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const keyPrefix = "rate_limit"

// recordTTL makes counter records self-expiring; one live record per
// (client, UTC day).
const recordTTL = 24 * time.Hour

// ErrDisabled is returned by the Unlimited store to signal that no counter
// backend is configured.
var ErrDisabled = errors.New("quota: counter store not configured")

// CounterStore is the capability the gate needs from a counter backend:
// get and put-with-expiry on a single key.
type CounterStore interface {
	// Get returns the current count for key. A missing key is 0, not an error.
	Get(ctx context.Context, key string) (int, error)
	// Set stores count under key with the given expiry.
	Set(ctx context.Context, key string, count int, ttl time.Duration) error
}

// Unlimited is the always-permit store wired when no counter backend is
// configured. The gate treats its ErrDisabled as "skip rate limiting".
type Unlimited struct{}

func (Unlimited) Get(context.Context, string) (int, error) { return 0, ErrDisabled }

func (Unlimited) Set(context.Context, string, int, time.Duration) error { return nil }

// Key derives the counter key for a client on the UTC day containing t.
func Key(clientID string, t time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, clientID, t.UTC().Format("2006-01-02"))
}

// Result reports a gate decision. Used and Limit are only meaningful when
// Tracked is true; untracked results come from the fail-open paths.
type Result struct {
	Allowed bool
	Used    int
	Limit   int
	Tracked bool
}

// Gate admits or rejects requests against a daily per-client ceiling.
type Gate struct {
	store  CounterStore
	limit  int
	logger *slog.Logger
}

func NewGate(store CounterStore, limit int, logger *slog.Logger) *Gate {
	return &Gate{store: store, limit: limit, logger: logger}
}

// Check determines whether clientID may proceed today and, if so, records the
// attempt. Store failures fail open: availability wins over strictness, so a
// counter outage never blocks the feature. The counter update after a passing
// read is best-effort; a write failure is logged but does not reject the
// request.
func (g *Gate) Check(ctx context.Context, clientID string, now time.Time) Result {
	key := Key(clientID, now)

	count, err := g.store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrDisabled):
		g.logger.Warn("counter store not configured, rate limiting disabled")
		return Result{Allowed: true}
	case err != nil:
		g.logger.Warn("counter store unavailable, skipping rate limit",
			slog.String("error", err.Error()),
		)
		return Result{Allowed: true}
	}

	if count >= g.limit {
		return Result{Allowed: false, Used: count, Limit: g.limit, Tracked: true}
	}

	if err := g.store.Set(ctx, key, count+1, recordTTL); err != nil {
		g.logger.Warn("failed to update rate limit counter",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return Result{Allowed: true, Used: count + 1, Limit: g.limit, Tracked: true}
}
