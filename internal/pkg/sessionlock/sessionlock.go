package sessionlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTurnInProgress is returned when a session already has an active turn.
// Turns within a session are strictly serialized.
var ErrTurnInProgress = errors.New("a turn is already in progress for this session")

// Locker serializes turns per session.
type Locker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// releaseScript deletes the lock only when it still holds our token, so a
// release after TTL expiry cannot delete another turn's lock.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// RedisClient is the slice of go-redis the locker needs.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker takes a per-session lock via SET NX with a TTL, so a crashed
// process cannot hold a session hostage past the TTL.
type RedisLocker struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisLocker(client RedisClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) key(sessionID string) string {
	return "mentor:turnlock:" + sessionID
}

func (l *RedisLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(sessionID), token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTurnInProgress
	}

	release := func() {
		// Best effort; the TTL is the backstop.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		l.client.Eval(releaseCtx, releaseScript, []string{l.key(sessionID)}, token)
	}
	return release, nil
}

// LocalLocker is the single-process fallback used when redis is not
// configured (tests, local development).
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[sessionID]; taken {
		return nil, ErrTurnInProgress
	}
	l.held[sessionID] = struct{}{}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, sessionID)
	}
	return release, nil
}
