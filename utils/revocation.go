package authUtils

import (
	"context"
	"time"

	"report2resolve-be/repository"
)

// Revocations remembers logged-out tokens until they would have expired.
type Revocations struct {
	kv     repository.KV
	prefix string
}

func NewRevocations(kv repository.KV, prefix string) *Revocations {
	return &Revocations{kv: kv, prefix: prefix + ":revoked:"}
}

// Revoke marks the token id as unusable until expiresAt.
func (r *Revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.kv.Set(ctx, r.prefix+tokenID, "1", ttl)
}

// IsRevoked reports whether the token id was revoked.
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := r.kv.Get(ctx, r.prefix+tokenID)
	switch err {
	case nil:
		return true, nil
	case repository.ErrKeyMissing:
		return false, nil
	}
	return false, err
}
