package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	fraudapp "github.com/videocc/videocc/internal/application/fraud"
	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/domain/quota"
	vo "github.com/videocc/videocc/internal/domain/shared/valueobjects"
	sharedConfig "github.com/videocc/videocc/internal/shared/config"
)

// Guard is the typed form of the guard section.
type Guard struct {
	Policy        member.Policy
	Limits        quota.Limits
	Fraud         fraud.Policy
	Thresholds    fraudapp.AnalyticsThresholds
	Chain         vo.ChainType
	CostPerMinute decimal.Decimal
}

// ParseGuard converts the guard section into domain values, falling back to
// the domain defaults for zero values.
func ParseGuard(cfg sharedConfig.GuardConfig) (*Guard, error) {
	restricted := member.ParseGender(cfg.RestrictedGender)
	privileged := member.ParseGender(cfg.PrivilegedGender)
	policy := member.DefaultPolicy()
	if cfg.RestrictedGender != "" || cfg.PrivilegedGender != "" {
		if restricted == privileged {
			return nil, fmt.Errorf("restricted and privileged gender must differ, got %q", cfg.RestrictedGender)
		}
		policy = member.NewPolicy(restricted, privileged)
	}

	limits := quota.DefaultLimits()
	setInt(&limits.MaxCalls, cfg.Quota.MaxCallsPerDay)
	setInt(&limits.MaxCallSeconds, cfg.Quota.MaxCallSecondsPerDay)
	setInt(&limits.MaxMessages, cfg.Quota.MaxMessagesPerDay)
	setInt(&limits.MaxContacts, cfg.Quota.MaxContactsPerDay)

	chain, err := vo.NewChainType(cfg.Fraud.WalletChain)
	if err != nil {
		return nil, err
	}

	fp := fraud.DefaultPolicy()
	fp.Chain = chain
	setInt(&fp.MaxPurchasesPerHour, cfg.Fraud.MaxPurchasesPerHour)
	setInt(&fp.MaxUsersPerWallet, cfg.Fraud.MaxUsersPerWallet)
	setInt(&fp.MaxPurchasesPerIPPerDay, cfg.Fraud.MaxPurchasesPerIPPerDay)
	setDecimal(&fp.MaxDailySpendUSD, cfg.Fraud.MaxDailySpendUSD)
	setDecimal(&fp.MinAmountUSD, cfg.Fraud.MinAmountUSD)
	setDecimal(&fp.MaxAmountUSD, cfg.Fraud.MaxAmountUSD)
	if cfg.Fraud.RetentionDays > 0 {
		fp.Retention = time.Duration(cfg.Fraud.RetentionDays) * 24 * time.Hour
	}
	if fp.MinAmountUSD.GreaterThan(fp.MaxAmountUSD) {
		return nil, fmt.Errorf("min amount %s exceeds max amount %s", fp.MinAmountUSD, fp.MaxAmountUSD)
	}
	if fp.Retention < fp.LongestWindow() {
		return nil, fmt.Errorf("fraud retention %s is shorter than the longest check window %s", fp.Retention, fp.LongestWindow())
	}

	thresholds := fraudapp.DefaultAnalyticsThresholds()
	setInt(&thresholds.SuspiciousWalletUsers, cfg.Fraud.SuspiciousWalletUsers)
	setInt(&thresholds.HighVolumeIPPurchases, cfg.Fraud.HighVolumeIPPurchases)

	cost := decimal.RequireFromString("1.00")
	if cfg.Billing.CostPerMinute != "" {
		cost, err = decimal.NewFromString(cfg.Billing.CostPerMinute)
		if err != nil {
			return nil, fmt.Errorf("invalid cost per minute %q: %w", cfg.Billing.CostPerMinute, err)
		}
		if cost.IsNegative() {
			return nil, fmt.Errorf("cost per minute must not be negative")
		}
	}

	return &Guard{
		Policy:        policy,
		Limits:        limits,
		Fraud:         fp,
		Thresholds:    thresholds,
		Chain:         chain,
		CostPerMinute: cost,
	}, nil
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDecimal(dst *decimal.Decimal, v float64) {
	if v > 0 {
		*dst = decimal.NewFromFloat(v)
	}
}
