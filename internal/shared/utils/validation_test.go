package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/shared/errors"
)

type coinsRequest struct {
	PackageID string `json:"package_id" validate:"required,max=64"`
	Coins     int64  `json:"coins" validate:"gte=10,lte=10000"`
	Method    string `json:"method" validate:"oneof=crypto card"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	err := ValidateStruct(coinsRequest{Coins: 5, Method: "cash"})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "package_id is required")
	assert.Contains(t, appErr.Details, "coins must be greater than or equal to 10")
	assert.Contains(t, appErr.Details, "method must be one of [crypto card]")
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	assert.NoError(t, ValidateStruct(coinsRequest{PackageID: "p-100", Coins: 100, Method: "crypto"}))
}
