package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Registry remembers tokens that must be refused although they have not
// expired yet. Entries are keyed by the exact token string; expiresAt is the
// token's own expiry, after which the entry may be dropped.
type Registry interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
