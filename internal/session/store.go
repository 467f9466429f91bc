package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "upload:session:"

// ErrNotFound is returned when a session does not exist or has expired
var ErrNotFound = errors.New("session not found")

// Store persists sessions between interactions
type Store interface {
	// Get loads a session by ID
	Get(ctx context.Context, id string) (*Session, error)

	// Save stores a session and refreshes its TTL
	Save(ctx context.Context, s *Session) error

	// Delete removes a session
	Delete(ctx context.Context, id string) error

	// Health returns store health status
	Health() map[string]interface{}
}

// RedisStore keeps sessions in Redis with an in-memory fallback used when
// Redis is not configured or a Redis call fails
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger

	memStore map[string]memItem
	memMutex sync.RWMutex
}

type memItem struct {
	value     []byte
	expiresAt time.Time
}

// NewRedisStore creates a session store. client may be nil, in which case
// sessions only live in process memory.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		memStore: make(map[string]memItem),
	}
}

// Get loads a session by ID
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	key := keyPrefix + id

	if r.client != nil {
		val, err := r.client.Get(ctx, key).Bytes()
		if err == nil {
			r.logger.WithField("session_id", id).Debug("Session loaded (Redis)")
			return decode(val)
		}
		if !errors.Is(err, redis.Nil) {
			r.logger.WithFields(logrus.Fields{
				"session_id": id,
				"error":      err.Error(),
			}).Warn("Redis get error, falling back to memory store")
		}
	}

	r.memMutex.RLock()
	item, exists := r.memStore[key]
	r.memMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if time.Now().After(item.expiresAt) {
		r.memMutex.Lock()
		delete(r.memStore, key)
		r.memMutex.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r.logger.WithField("session_id", id).Debug("Session loaded (memory)")
	return decode(item.value)
}

// Save stores a session and refreshes its TTL
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	key := keyPrefix + s.ID

	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}

	if r.client != nil {
		err := r.client.Set(ctx, key, val, r.ttl).Err()
		if err == nil {
			r.logger.WithField("session_id", s.ID).Debug("Session saved (Redis)")
			return nil
		}
		r.logger.WithFields(logrus.Fields{
			"session_id": s.ID,
			"error":      err.Error(),
		}).Warn("Redis set error, falling back to memory store")
	}

	r.memMutex.Lock()
	r.memStore[key] = memItem{
		value:     val,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.memMutex.Unlock()

	r.logger.WithField("session_id", s.ID).Debug("Session saved (memory)")
	return nil
}

// Delete removes a session
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	key := keyPrefix + id

	if r.client != nil {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			r.logger.WithFields(logrus.Fields{
				"session_id": id,
				"error":      err.Error(),
			}).Warn("Redis delete error")
		}
	}

	r.memMutex.Lock()
	delete(r.memStore, key)
	r.memMutex.Unlock()

	r.logger.WithField("session_id", id).Debug("Session deleted")
	return nil
}

// Health returns store health status
func (r *RedisStore) Health() map[string]interface{} {
	health := make(map[string]interface{})

	if r.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.client.Ping(ctx).Err(); err != nil {
			// sessions keep working from memory
			health["status"] = "degraded"
			health["error"] = err.Error()
		} else {
			health["status"] = "healthy"
		}
		health["backend"] = "redis"
	} else {
		health["status"] = "healthy"
		health["backend"] = "memory"
	}

	r.memMutex.RLock()
	health["memory_sessions"] = len(r.memStore)
	r.memMutex.RUnlock()

	return health
}

// cleanupExpired removes expired sessions from memory
func (r *RedisStore) cleanupExpired() {
	r.memMutex.Lock()
	defer r.memMutex.Unlock()

	now := time.Now()
	for key, item := range r.memStore {
		if now.After(item.expiresAt) {
			delete(r.memStore, key)
		}
	}
}

// StartCleanupRoutine periodically drops expired in-memory sessions until
// ctx is cancelled
func (r *RedisStore) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.cleanupExpired()
			}
		}
	}()
}

func decode(val []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
