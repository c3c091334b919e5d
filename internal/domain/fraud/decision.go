package fraud

import "fmt"

// ReasonCode identifies which check rejected a purchase.
type ReasonCode string

const (
	ReasonRateLimit    ReasonCode = "rate_limit"
	ReasonWalletReuse  ReasonCode = "wallet_reuse"
	ReasonIPVelocity   ReasonCode = "ip_velocity"
	ReasonDailySpend   ReasonCode = "daily_spend"
	ReasonAmountBounds ReasonCode = "amount_bounds"
	ReasonWalletFormat ReasonCode = "wallet_format"
)

// Decision is the structured verdict on a purchase attempt. A rejection is
// not an error: the caller shows Reason and must not retry automatically.
type Decision struct {
	Valid  bool       `json:"valid"`
	Code   ReasonCode `json:"code,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

func Approved() Decision {
	return Decision{Valid: true}
}

func rejected(code ReasonCode, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// ReasonMessage renders the human readable reason for code under p.
func ReasonMessage(code ReasonCode, p Policy) string {
	switch code {
	case ReasonRateLimit:
		return fmt.Sprintf("Rate limit exceeded: Maximum %d purchases per hour", p.MaxPurchasesPerHour)
	case ReasonWalletReuse:
		return "Wallet address has been used by too many users"
	case ReasonIPVelocity:
		return fmt.Sprintf("IP limit exceeded: Maximum %d purchases per day per IP", p.MaxPurchasesPerIPPerDay)
	case ReasonDailySpend:
		return fmt.Sprintf("Daily purchase limit exceeded: Maximum $%s per day", p.MaxDailySpendUSD.String())
	case ReasonAmountBounds:
		return fmt.Sprintf("Invalid amount: Must be between $%s and $%s", p.MinAmountUSD.String(), p.MaxAmountUSD.String())
	case ReasonWalletFormat:
		return "Invalid wallet address format"
	default:
		return "Purchase rejected"
	}
}
