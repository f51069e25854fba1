package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ListTTL is how long list results stay cached before expiring on their own.
const ListTTL = 30 * time.Second

// CharacterListKey builds the cache key for a user's character list.
func CharacterListKey(userID uint) string {
	return fmt.Sprintf("characters:user:%d", userID)
}

// StoryListKey builds the cache key for a user's story list.
func StoryListKey(userID uint) string {
	return fmt.Sprintf("stories:user:%d", userID)
}

// Aside implements cache-aside: on a hit, dest is populated from the cached
// JSON; on a miss, fetch runs and its result (whatever it stored into dest)
// is cached. All Redis failures degrade to calling fetch directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		// Corrupt entry; drop it and fall through to fetch.
		client.Del(ctx, key)
	}

	if err := fetch(); err != nil {
		return err
	}

	if encoded, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, encoded, ttl)
	}
	return nil
}

// Invalidate removes keys from the cache. Safe to call when Redis is down.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
