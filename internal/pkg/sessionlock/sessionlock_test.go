package sessionlock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis records lock traffic and simulates the key's current holder.
type fakeRedis struct {
	held   map[string]string
	setKey string
	setVal string

	evalScript string
	evalKeys   []string
	evalArgs   []interface{}
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{held: make(map[string]string)}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.setKey = key
	f.setVal = value.(string)
	if _, taken := f.held[key]; taken {
		return redis.NewBoolResult(false, nil)
	}
	f.held[key] = f.setVal
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.evalScript = script
	f.evalKeys = keys
	f.evalArgs = args
	if len(keys) == 1 && len(args) == 1 && f.held[keys[0]] == args[0].(string) {
		delete(f.held, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	rdb := newFakeRedis()
	locker := NewRedisLocker(rdb, time.Minute)

	release, err := locker.Acquire(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "mentor:turnlock:s1", rdb.setKey)
	assert.NotEmpty(t, rdb.setVal)

	_, err = locker.Acquire(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrTurnInProgress)

	release()
	assert.Equal(t, releaseScript, rdb.evalScript)
	assert.Equal(t, []string{"mentor:turnlock:s1"}, rdb.evalKeys)
	assert.Empty(t, rdb.held)

	_, err = locker.Acquire(context.Background(), "s1")
	assert.NoError(t, err)
}

func TestRedisLockerReleaseKeepsForeignLock(t *testing.T) {
	rdb := newFakeRedis()
	locker := NewRedisLocker(rdb, time.Minute)

	release, err := locker.Acquire(context.Background(), "s1")
	require.NoError(t, err)

	// Simulate TTL expiry followed by another turn taking the lock.
	rdb.held["mentor:turnlock:s1"] = "other-token"

	release()
	assert.Equal(t, "other-token", rdb.held["mentor:turnlock:s1"])
}

func TestRedisLockerTokensDiffer(t *testing.T) {
	rdb := newFakeRedis()
	locker := NewRedisLocker(rdb, time.Minute)

	release, err := locker.Acquire(context.Background(), "s1")
	require.NoError(t, err)
	first := rdb.setVal
	release()

	_, err = locker.Acquire(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotEqual(t, first, rdb.setVal)
}

func TestLocalLockerSerializesPerSession(t *testing.T) {
	locker := NewLocalLocker()

	release, err := locker.Acquire(context.Background(), "s1")
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrTurnInProgress)

	// Other sessions are independent.
	otherRelease, err := locker.Acquire(context.Background(), "s2")
	require.NoError(t, err)
	otherRelease()

	release()
	_, err = locker.Acquire(context.Background(), "s1")
	assert.NoError(t, err)
}
