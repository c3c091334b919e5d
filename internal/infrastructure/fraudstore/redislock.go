package fraudstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/videocc/videocc/internal/domain/fraud"
)

const (
	DefaultLockTTL  = 10 * time.Second
	DefaultLockWait = 3 * time.Second

	lockRetryDelay     = 25 * time.Millisecond
	lockReleaseTimeout = time.Second
)

var _ fraud.AdmissionLock = (*RedisAdmissionLock)(nil)

// releaseLockScript deletes the key only while it still holds our token, so
// a release after TTL expiry never frees another replica's lock.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisAdmissionLock serializes purchase admission between API replicas that
// share a RedisStore. One SETNX key is taken per member, wallet and client IP:
//
//	{prefix}lock:member:{id}
//	{prefix}lock:wallet:{addr}
//	{prefix}lock:ip:{ip}
//
// Keys are taken in sorted order so two attempts never wait on each other in
// a cycle. The TTL bounds how long a crashed replica can block others.
type RedisAdmissionLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisAdmissionLock creates the lock. Zero ttl or wait fall back to
// DefaultLockTTL and DefaultLockWait.
func NewRedisAdmissionLock(client *redis.Client, prefix string, ttl, wait time.Duration) *RedisAdmissionLock {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &RedisAdmissionLock{client: client, prefix: prefix, ttl: ttl, wait: wait}
}

func (l *RedisAdmissionLock) keys(attempt fraud.Purchase) []string {
	keys := []string{
		l.prefix + "lock:member:" + strconv.FormatUint(uint64(attempt.MemberID), 10),
		l.prefix + "lock:wallet:" + attempt.WalletAddress,
	}
	if attempt.ClientIP != "" {
		keys = append(keys, l.prefix+"lock:ip:"+attempt.ClientIP)
	}
	slices.Sort(keys)
	return keys
}

// Acquire blocks until every key of attempt is held or the wait runs out, in
// which case it returns fraud.ErrAdmissionBusy.
func (l *RedisAdmissionLock) Acquire(ctx context.Context, attempt fraud.Purchase) (func(), error) {
	token := uuid.NewString()
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	var held []string
	release := func() {
		// a cancelled request must still free its keys
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
		defer cancel()
		for _, key := range held {
			_ = releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err()
		}
	}

	for _, key := range l.keys(attempt) {
		if err := l.acquireKey(waitCtx, key, token); err != nil {
			release()
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, fraud.ErrAdmissionBusy
			}
			return nil, err
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *RedisAdmissionLock) acquireKey(ctx context.Context, key, token string) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("failed to acquire admission lock %s: %w", key, err)
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(lockRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
