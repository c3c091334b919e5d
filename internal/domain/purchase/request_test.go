package purchase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/domain/fraud"
)

func TestNewRequestRoundTripsAttempt(t *testing.T) {
	attempt := fraud.Purchase{
		MemberID:      4,
		WalletAddress: "TAbcdefghijklmnopqrstuvwxyz1234567",
		AmountUSD:     decimal.RequireFromString("19.99"),
		ClientIP:      "198.51.100.4",
		Type:          fraud.PurchaseTypeBundle,
		At:            time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC),
	}

	r, err := NewRequest("pr_1", attempt, "bundle-gold", 500, 30)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, r.Status())
	assert.Equal(t, int64(500), r.Coins())
	assert.Equal(t, 30, r.VIPDays())
	assert.Equal(t, attempt, r.AsPurchase())
}

func TestNewRequestValidation(t *testing.T) {
	valid := fraud.Purchase{MemberID: 1, Type: fraud.PurchaseTypeVIP, At: time.Now()}

	_, err := NewRequest("", valid, "vip-monthly", 0, 30)
	assert.Error(t, err)

	_, err = NewRequest("pr_2", fraud.Purchase{Type: fraud.PurchaseTypeVIP, At: time.Now()}, "vip", 0, 30)
	assert.Error(t, err)

	_, err = NewRequest("pr_3", valid, "vip", -1, 30)
	assert.Error(t, err)
}
