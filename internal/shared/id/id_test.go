package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPurchaseRequestID(t *testing.T) {
	a := NewPurchaseRequestID()
	b := NewPurchaseRequestID()

	assert.True(t, HasPrefix(a, PrefixPurchaseRequest))
	assert.Len(t, a, len("pr_")+32)
	assert.NotEqual(t, a, b)
}

func TestVideoCallTransactionID(t *testing.T) {
	paidAt := time.UnixMilli(1767225600123).UTC()
	assert.Equal(t, "vcall_17_1767225600123", VideoCallTransactionID(17, paidAt))
}
