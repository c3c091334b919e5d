package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/domain/member"
	vo "github.com/videocc/videocc/internal/domain/shared/valueobjects"
	sharedConfig "github.com/videocc/videocc/internal/shared/config"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIDEOCC_SERVER_PORT", "9090")
	t.Setenv("VIDEOCC_GUARD_QUOTA_MAX_MESSAGES_PER_DAY", "7")

	cfg, err := Load("release")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Guard.Quota.MaxMessagesPerDay)
	assert.Equal(t, int64(1_000_000_000), cfg.Guard.Reserve.InitialBalance)
	assert.Same(t, cfg, Get())
}

func TestParseGuard(t *testing.T) {
	g, err := ParseGuard(sharedConfig.GuardConfig{
		RestrictedGender: "Male",
		PrivilegedGender: "female",
		Quota:            sharedConfig.QuotaConfig{MaxMessagesPerDay: 10},
		Fraud:            sharedConfig.FraudConfig{WalletChain: "pol", MaxAmountUSD: 250.5},
		Billing:          sharedConfig.BillingConfig{CostPerMinute: "0.75"},
	})
	require.NoError(t, err)

	assert.Equal(t, member.GenderMale, g.Policy.Restricted())
	assert.Equal(t, 10, g.Limits.MaxMessages)
	assert.Equal(t, 3, g.Limits.MaxCalls)
	assert.Equal(t, vo.ChainTypePOL, g.Fraud.Chain)
	assert.Equal(t, "250.5", g.Fraud.MaxAmountUSD.String())
	assert.Equal(t, "0.75", g.CostPerMinute.StringFixed(2))
}

func TestParseGuard_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  sharedConfig.GuardConfig
	}{
		{"same genders", sharedConfig.GuardConfig{RestrictedGender: "male", PrivilegedGender: "male"}},
		{"unknown chain", sharedConfig.GuardConfig{Fraud: sharedConfig.FraudConfig{WalletChain: "btc"}}},
		{"min above max", sharedConfig.GuardConfig{Fraud: sharedConfig.FraudConfig{MinAmountUSD: 600}}},
		{"bad rate", sharedConfig.GuardConfig{Billing: sharedConfig.BillingConfig{CostPerMinute: "abc"}}},
		{"negative rate", sharedConfig.GuardConfig{Billing: sharedConfig.BillingConfig{CostPerMinute: "-1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGuard(tt.cfg)
			assert.Error(t, err)
		})
	}
}
