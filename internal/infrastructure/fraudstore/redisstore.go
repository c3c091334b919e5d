package fraudstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/domain/fraud"
)

const DefaultKeyPrefix = "videocc:fraud:"

var _ fraud.HistoryStore = (*RedisStore)(nil)

// RedisStore shares purchase history between API replicas.
//
// Layout, scores are unix milliseconds:
//
//	{prefix}member:{id}   ZSET of encoded purchases
//	{prefix}ip:{ip}       ZSET of encoded purchases
//	{prefix}wallet:{addr} ZSET of member ids scored by last use
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

type entry struct {
	ID        string             `json:"id"`
	MemberID  uint               `json:"member_id"`
	Wallet    string             `json:"wallet"`
	AmountUSD decimal.Decimal    `json:"amount_usd"`
	ClientIP  string             `json:"client_ip"`
	Type      fraud.PurchaseType `json:"type"`
	At        time.Time          `json:"at"`
}

func encode(p fraud.Purchase) (string, error) {
	data, err := json.Marshal(entry{
		ID:        uuid.NewString(),
		MemberID:  p.MemberID,
		Wallet:    p.WalletAddress,
		AmountUSD: p.AmountUSD,
		ClientIP:  p.ClientIP,
		Type:      p.Type,
		At:        p.At.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode purchase: %w", err)
	}
	return string(data), nil
}

func decode(raw string) (fraud.Purchase, error) {
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return fraud.Purchase{}, fmt.Errorf("failed to decode purchase: %w", err)
	}
	return fraud.Purchase{
		MemberID:      e.MemberID,
		WalletAddress: e.Wallet,
		AmountUSD:     e.AmountUSD,
		ClientIP:      e.ClientIP,
		Type:          e.Type,
		At:            e.At,
	}, nil
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func (s *RedisStore) memberKey(id uint) string {
	return s.prefix + "member:" + strconv.FormatUint(uint64(id), 10)
}

func (s *RedisStore) ipKey(ip string) string {
	return s.prefix + "ip:" + ip
}

func (s *RedisStore) walletKey(wallet string) string {
	return s.prefix + "wallet:" + wallet
}

func (s *RedisStore) Snapshot(ctx context.Context, attempt fraud.Purchase, since time.Time) (fraud.Snapshot, error) {
	rng := &redis.ZRangeBy{Min: strconv.FormatInt(since.UnixMilli(), 10), Max: "+inf"}

	pipe := s.client.Pipeline()
	memberCmd := pipe.ZRangeByScore(ctx, s.memberKey(attempt.MemberID), rng)
	ipCmd := pipe.ZRangeByScore(ctx, s.ipKey(attempt.ClientIP), rng)
	walletCmd := pipe.ZRangeByScoreWithScores(ctx, s.walletKey(attempt.WalletAddress), rng)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fraud.Snapshot{}, fmt.Errorf("failed to read purchase history: %w", err)
	}

	var snap fraud.Snapshot
	var err error
	if snap.MemberPurchases, err = decodeAll(memberCmd.Val()); err != nil {
		return fraud.Snapshot{}, err
	}
	if snap.IPPurchases, err = decodeAll(ipCmd.Val()); err != nil {
		return fraud.Snapshot{}, err
	}
	if snap.WalletUses, err = walletUses(walletCmd.Val()); err != nil {
		return fraud.Snapshot{}, err
	}
	return snap, nil
}

// Record writes the three indexes in one MULTI/EXEC.
func (s *RedisStore) Record(ctx context.Context, p fraud.Purchase) error {
	raw, err := encode(p)
	if err != nil {
		return err
	}
	sc := score(p.At)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, s.memberKey(p.MemberID), redis.Z{Score: sc, Member: raw})
		pipe.ZAdd(ctx, s.ipKey(p.ClientIP), redis.Z{Score: sc, Member: raw})
		pipe.ZAddGT(ctx, s.walletKey(p.WalletAddress), redis.Z{Score: sc, Member: strconv.FormatUint(uint64(p.MemberID), 10)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

// Prune trims every index and reports how many purchases were dropped.
func (s *RedisStore) Prune(ctx context.Context, before time.Time) (int, error) {
	upper := "(" + strconv.FormatInt(before.UnixMilli(), 10)
	removed := 0
	err := s.scan(ctx, "*", func(key string) error {
		n, err := s.client.ZRemRangeByScore(ctx, key, "-inf", upper).Result()
		if err != nil {
			return fmt.Errorf("failed to prune %s: %w", key, err)
		}
		if strings.HasPrefix(key, s.prefix+"member:") {
			removed += int(n)
		}
		return nil
	})
	return removed, err
}

func (s *RedisStore) Analytics(ctx context.Context, q fraud.AnalyticsQuery) (fraud.Analytics, error) {
	byMember := make(map[uint][]fraud.Purchase)
	byIP := make(map[string][]fraud.Purchase)
	byWallet := make(map[string][]fraud.WalletUse)

	err := s.scan(ctx, "member:*", func(key string) error {
		id, err := strconv.ParseUint(strings.TrimPrefix(key, s.prefix+"member:"), 10, 64)
		if err != nil {
			return nil
		}
		purchases, err := s.readPurchases(ctx, key)
		if err != nil {
			return err
		}
		byMember[uint(id)] = purchases
		return nil
	})
	if err != nil {
		return fraud.Analytics{}, err
	}

	err = s.scan(ctx, "ip:*", func(key string) error {
		purchases, err := s.readPurchases(ctx, key)
		if err != nil {
			return err
		}
		byIP[strings.TrimPrefix(key, s.prefix+"ip:")] = purchases
		return nil
	})
	if err != nil {
		return fraud.Analytics{}, err
	}

	err = s.scan(ctx, "wallet:*", func(key string) error {
		zs, err := s.client.ZRangeWithScores(ctx, key, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		uses, err := walletUses(zs)
		if err != nil {
			return err
		}
		byWallet[strings.TrimPrefix(key, s.prefix+"wallet:")] = uses
		return nil
	})
	if err != nil {
		return fraud.Analytics{}, err
	}

	return fraud.Summarize(q, byMember, byWallet, byIP), nil
}

func (s *RedisStore) readPurchases(ctx context.Context, key string) ([]fraud.Purchase, error) {
	raws, err := s.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return decodeAll(raws)
}

func (s *RedisStore) scan(ctx context.Context, pattern string, fn func(key string) error) error {
	iter := s.client.Scan(ctx, 0, s.prefix+pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan purchase history: %w", err)
	}
	return nil
}

func decodeAll(raws []string) ([]fraud.Purchase, error) {
	out := make([]fraud.Purchase, 0, len(raws))
	for _, raw := range raws {
		p, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func walletUses(zs []redis.Z) ([]fraud.WalletUse, error) {
	out := make([]fraud.WalletUse, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet user %q: %w", member, err)
		}
		out = append(out, fraud.WalletUse{
			MemberID:   uint(id),
			LastUsedAt: time.UnixMilli(int64(z.Score)).UTC(),
		})
	}
	return out, nil
}
