// Package fraudstore keeps the purchase history the fraud heuristics read.
package fraudstore

import (
	"context"
	"sync"
	"time"

	"github.com/videocc/videocc/internal/domain/fraud"
)

var _ fraud.HistoryStore = (*MemoryStore)(nil)

// MemoryStore is a process-local history. It is lost on restart and is
// rebuilt from persisted purchase requests at startup.
type MemoryStore struct {
	mu       sync.RWMutex
	byMember map[uint][]fraud.Purchase
	byWallet map[string]map[uint]time.Time
	byIP     map[string][]fraud.Purchase
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byMember: make(map[uint][]fraud.Purchase),
		byWallet: make(map[string]map[uint]time.Time),
		byIP:     make(map[string][]fraud.Purchase),
	}
}

func (s *MemoryStore) Snapshot(_ context.Context, attempt fraud.Purchase, since time.Time) (fraud.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := fraud.Snapshot{
		MemberPurchases: filterSince(s.byMember[attempt.MemberID], since),
		IPPurchases:     filterSince(s.byIP[attempt.ClientIP], since),
	}
	for memberID, at := range s.byWallet[attempt.WalletAddress] {
		if at.Before(since) {
			continue
		}
		snap.WalletUses = append(snap.WalletUses, fraud.WalletUse{MemberID: memberID, LastUsedAt: at})
	}
	return snap, nil
}

func (s *MemoryStore) Record(_ context.Context, p fraud.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byMember[p.MemberID] = append(s.byMember[p.MemberID], p)
	s.byIP[p.ClientIP] = append(s.byIP[p.ClientIP], p)

	users, ok := s.byWallet[p.WalletAddress]
	if !ok {
		users = make(map[uint]time.Time)
		s.byWallet[p.WalletAddress] = users
	}
	if last, seen := users[p.MemberID]; !seen || p.At.After(last) {
		users[p.MemberID] = p.At
	}
	return nil
}

func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, purchases := range s.byMember {
		kept := filterSince(purchases, before)
		removed += len(purchases) - len(kept)
		if len(kept) == 0 {
			delete(s.byMember, id)
			continue
		}
		s.byMember[id] = kept
	}
	for ip, purchases := range s.byIP {
		kept := filterSince(purchases, before)
		if len(kept) == 0 {
			delete(s.byIP, ip)
			continue
		}
		s.byIP[ip] = kept
	}
	for wallet, users := range s.byWallet {
		for memberID, at := range users {
			if at.Before(before) {
				delete(users, memberID)
			}
		}
		if len(users) == 0 {
			delete(s.byWallet, wallet)
		}
	}
	return removed, nil
}

func (s *MemoryStore) Analytics(_ context.Context, q fraud.AnalyticsQuery) (fraud.Analytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byWallet := make(map[string][]fraud.WalletUse, len(s.byWallet))
	for wallet, users := range s.byWallet {
		for memberID, at := range users {
			byWallet[wallet] = append(byWallet[wallet], fraud.WalletUse{MemberID: memberID, LastUsedAt: at})
		}
	}
	return fraud.Summarize(q, s.byMember, byWallet, s.byIP), nil
}

func filterSince(purchases []fraud.Purchase, since time.Time) []fraud.Purchase {
	out := make([]fraud.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if !p.At.Before(since) {
			out = append(out, p)
		}
	}
	return out
}
