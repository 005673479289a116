package cache

import "time"

// KV is the key/value contract the views depend on. Entries expire after
// their TTL. Implementations must be safe for concurrent use.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}
