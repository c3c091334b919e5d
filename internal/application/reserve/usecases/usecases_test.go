package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/infrastructure/reservestore"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/logger"
)

func TestAdjustBalanceUseCase(t *testing.T) {
	ctx := context.Background()
	ledger := reservestore.NewMemoryLedger(100)
	adjust := NewAdjustBalanceUseCase(ledger, logger.NewNopLogger())
	get := NewGetBalanceUseCase(ledger, logger.NewNopLogger())

	tests := []struct {
		name    string
		cmd     AdjustBalanceCommand
		want    int64
		wantErr bool
	}{
		{"add", AdjustBalanceCommand{Operation: "add", Amount: 50, AdminID: 1}, 150, false},
		{"subtract floors at zero", AdjustBalanceCommand{Operation: "subtract", Amount: 500, AdminID: 1}, 0, false},
		{"set", AdjustBalanceCommand{Operation: "set", Amount: 1000, AdminID: 1}, 1000, false},
		{"unknown operation", AdjustBalanceCommand{Operation: "double", Amount: 1, AdminID: 1}, 1000, true},
		{"negative amount", AdjustBalanceCommand{Operation: "add", Amount: -5, AdminID: 1}, 1000, true},
		{"missing admin", AdjustBalanceCommand{Operation: "add", Amount: 5}, 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := adjust.Execute(ctx, tt.cmd)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, res.Balance)
			}

			got, err := get.Execute(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Balance)
		})
	}
}
