package outbound

import (
	"context"
	"time"
)

// SessionCache is an expiring key-value store holding the single
// authoritative refresh token per username. Set always fully replaces the
// stored value; Delete of an absent key is not an error.
type SessionCache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Delete(ctx context.Context, key string) error
}
