// Package id generates the externally visible identifiers of purchase
// requests and call payments.
package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixPurchaseRequest = "pr"
	PrefixVideoCall       = "vcall"
)

// NewPurchaseRequestID returns a prefixed random identifier such as
// "pr_3f0c5c3e9a6b4b8e9d1f7a2c4e6b8d0f".
func NewPurchaseRequestID() string {
	return PrefixPurchaseRequest + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// VideoCallTransactionID identifies the payment of a call session,
// "vcall_<session>_<unix millis>".
func VideoCallTransactionID(sessionID uint, paidAt time.Time) string {
	return fmt.Sprintf("%s_%d_%d", PrefixVideoCall, sessionID, paidAt.UnixMilli())
}

// HasPrefix reports whether s carries the given prefix followed by "_".
func HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(s, prefix+"_")
}
