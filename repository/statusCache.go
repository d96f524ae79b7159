package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
)

const statusCacheKey = "statuses"

type cachedStatuses struct {
	next StatusRepository
	kv   KV
	key  string
	ttl  time.Duration
}

// NewCachedStatuses caches the status vocabulary in kv. Cache failures fall
// through to the underlying repository.
func NewCachedStatuses(next StatusRepository, kv KV, namespace string, ttl time.Duration) StatusRepository {
	return &cachedStatuses{next: next, kv: kv, key: namespace + ":" + statusCacheKey, ttl: ttl}
}

func (c *cachedStatuses) List(ctx context.Context) ([]models.Status, error) {
	if raw, err := c.kv.Get(ctx, c.key); err == nil {
		var statuses []models.Status
		if err := json.Unmarshal([]byte(raw), &statuses); err == nil {
			return statuses, nil
		}
	} else if err != ErrKeyMissing {
		logrus.WithError(err).Warn("status cache read failed")
	}

	statuses, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(statuses); err == nil {
		if err := c.kv.Set(ctx, c.key, string(raw), c.ttl); err != nil {
			logrus.WithError(err).Warn("status cache write failed")
		}
	}
	return statuses, nil
}

func (c *cachedStatuses) Seed(ctx context.Context, statuses []models.Status) error {
	if err := c.next.Seed(ctx, statuses); err != nil {
		return err
	}
	if err := c.kv.Del(ctx, c.key); err != nil {
		logrus.WithError(err).Warn("status cache invalidation failed")
	}
	return nil
}
