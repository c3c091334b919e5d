package reservestore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/videocc/videocc/internal/domain/reserve"
)

const DefaultKey = "videocc:reserve:balance"

var _ reserve.Ledger = (*RedisLedger)(nil)

// Every script seeds the key with ARGV[1] when it is missing so a fresh
// Redis starts from the configured pool.

var balanceScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'NX')
return tonumber(redis.call('GET', KEYS[1]))
`)

// reserveScript returns {1, remaining} on success and {0, balance} when
// the amount does not fit.
var reserveScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'NX')
local balance = tonumber(redis.call('GET', KEYS[1]))
local amount = tonumber(ARGV[2])
if balance < amount then
	return {0, balance}
end
return {1, redis.call('DECRBY', KEYS[1], amount)}
`)

var creditScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'NX')
return redis.call('INCRBY', KEYS[1], ARGV[2])
`)

var subtractScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'NX')
local balance = tonumber(redis.call('GET', KEYS[1])) - tonumber(ARGV[2])
if balance < 0 then
	balance = 0
end
redis.call('SET', KEYS[1], balance)
return balance
`)

// RedisLedger keeps the reserve in one Redis key shared by all replicas.
type RedisLedger struct {
	client  *redis.Client
	key     string
	initial int64
}

func NewRedisLedger(client *redis.Client, key string, initial int64) *RedisLedger {
	if key == "" {
		key = DefaultKey
	}
	return &RedisLedger{client: client, key: key, initial: initial}
}

func (l *RedisLedger) Balance(ctx context.Context) (int64, error) {
	balance, err := balanceScript.Run(ctx, l.client, []string{l.key}, l.initial).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to read token reserve: %w", err)
	}
	return balance, nil
}

func (l *RedisLedger) Reserve(ctx context.Context, amount int64) (reserve.ReserveResult, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return reserve.ReserveResult{}, err
	}
	vals, err := reserveScript.Run(ctx, l.client, []string{l.key}, l.initial, amount).Int64Slice()
	if err != nil {
		return reserve.ReserveResult{}, fmt.Errorf("failed to reserve tokens: %w", err)
	}
	if len(vals) != 2 {
		return reserve.ReserveResult{}, fmt.Errorf("unexpected reserve script reply: %v", vals)
	}
	return reserve.ReserveResult{OK: vals[0] == 1, Remaining: vals[1]}, nil
}

func (l *RedisLedger) Credit(ctx context.Context, amount int64) (int64, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return 0, err
	}
	balance, err := creditScript.Run(ctx, l.client, []string{l.key}, l.initial, amount).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to credit token reserve: %w", err)
	}
	return balance, nil
}

func (l *RedisLedger) Subtract(ctx context.Context, amount int64) (int64, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return 0, err
	}
	balance, err := subtractScript.Run(ctx, l.client, []string{l.key}, l.initial, amount).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to subtract from token reserve: %w", err)
	}
	return balance, nil
}

func (l *RedisLedger) SetBalance(ctx context.Context, amount int64) (int64, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return 0, err
	}
	if err := l.client.Set(ctx, l.key, amount, 0).Err(); err != nil {
		return 0, fmt.Errorf("failed to set token reserve: %w", err)
	}
	return amount, nil
}
