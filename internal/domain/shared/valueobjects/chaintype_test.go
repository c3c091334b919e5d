package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChainType(t *testing.T) {
	ct, err := NewChainType("")
	require.NoError(t, err)
	assert.Equal(t, ChainTypeTRC, ct)

	ct, err = NewChainType("POL")
	require.NoError(t, err)
	assert.Equal(t, ChainTypePOL, ct)

	_, err = NewChainType("btc")
	assert.Error(t, err)
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		chain   ChainType
		address string
		valid   bool
	}{
		{ChainTypeTRC, "TAbcdefghijklmnopqrstuvwxyz1234567", true},
		{ChainTypeTRC, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", true},
		{ChainTypeTRC, "TAbc", false},
		{ChainTypeTRC, "XAbcdefghijklmnopqrstuvwxyz1234567", false},
		{ChainTypeTRC, "TAbcdefghijklmnopqrstuvwxyz123456-", false},
		{ChainTypePOL, "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", true},
		{ChainTypePOL, "0xZZ132D05D31c914a87C6611C10748AEb04B58e8F", false},
		{ChainType("btc"), "anything", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.chain)+"/"+tt.address, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.chain.IsValidAddress(tt.address))
		})
	}
}
