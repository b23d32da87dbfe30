package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mindwell/internal/screening"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 10

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis backed session store. Every write
// refreshes the TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionStore {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("screening:session:%s", id)
}

func (c *sessionCache) Create(ctx context.Context, sess *screening.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := c.client.SetNX(ctx, c.key(sess.ID), data, c.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionExists, sess.ID)
	}
	return nil
}

func (c *sessionCache) Get(ctx context.Context, id string) (*screening.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess screening.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Update reads, mutates and writes the session inside a WATCH transaction,
// retrying when another writer touched the key first
func (c *sessionCache) Update(ctx context.Context, id string, fn UpdateFunc) (*screening.Session, error) {
	key := c.key(id)
	var updated *screening.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		if err != nil {
			return err
		}

		var sess screening.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return err
		}
		if err := fn(&sess); err != nil {
			return err
		}
		out, err := json.Marshal(&sess)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, c.ttl)
			return nil
		})
		if err == nil {
			updated = &sess
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := c.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUpdateConflict, id)
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
