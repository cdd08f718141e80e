package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisGetter is the slice of the go-redis client the store needs.
// Satisfied by *redis.Client and *redis.ClusterClient.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore serves catalog lookups from an external key/value service,
// keyed by the composite "catalogo:<catalog>:<code>". The keyspace is
// populated offline by the catalog generation tooling; this store only
// ever reads.
type RedisStore struct {
	client  redisGetter
	timeout time.Duration
}

// NewRedisStore wraps an existing go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, timeout: 5 * time.Second}
}

func key(catalog Name, code string) string {
	return "catalogo:" + string(catalog) + ":" + code
}

// Lookup returns the description registered for code.
func (s *RedisStore) Lookup(catalog Name, code string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.LookupContext(ctx, catalog, code)
}

// LookupContext is Lookup with caller-controlled cancellation.
func (s *RedisStore) LookupContext(ctx context.Context, catalog Name, code string) (string, error) {
	desc, err := s.client.Get(ctx, key(catalog, code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", &NotFoundError{Catalog: catalog, Code: code}
	}
	if err != nil {
		return "", err
	}
	return desc, nil
}

// Contains reports membership of code in catalog. Transport errors read
// as absence; validation against a remote store should prefer
// LookupContext to distinguish the two.
func (s *RedisStore) Contains(catalog Name, code string) bool {
	_, err := s.Lookup(catalog, code)
	return err == nil
}
