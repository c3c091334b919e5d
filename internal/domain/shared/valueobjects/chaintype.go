package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// ChainType is the blockchain whose wallet addresses a purchase or call
// payment must use.
type ChainType string

const (
	// ChainTypeTRC is Tron (TRC-20), the default purchase chain.
	ChainTypeTRC ChainType = "trc"
	// ChainTypePOL is Polygon.
	ChainTypePOL ChainType = "pol"
)

var (
	// T followed by 33 alphanumerics.
	tronAddressPattern = regexp.MustCompile(`^T[A-Za-z0-9]{33}$`)
	// 0x followed by 40 hex characters.
	polygonAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// NewChainType parses a configured chain name. Empty selects TRC.
func NewChainType(s string) (ChainType, error) {
	if s == "" {
		return ChainTypeTRC, nil
	}
	ct := ChainType(strings.ToLower(s))
	if !ct.IsValid() {
		return "", fmt.Errorf("invalid chain type: %s", s)
	}
	return ct, nil
}

func (ct ChainType) IsValid() bool {
	return ct == ChainTypeTRC || ct == ChainTypePOL
}

func (ct ChainType) String() string {
	return string(ct)
}

// IsValidAddress reports whether address has the shape of this chain.
func (ct ChainType) IsValidAddress(address string) bool {
	switch ct {
	case ChainTypeTRC:
		return tronAddressPattern.MatchString(address)
	case ChainTypePOL:
		return polygonAddressPattern.MatchString(address)
	default:
		return false
	}
}
