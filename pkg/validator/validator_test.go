package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string          `validate:"required"`
	Price decimal.Decimal `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(priced{Name: "ok", Price: decimal.RequireFromString("1.50")})
	assert.Empty(t, errs)

	errs = ValidateStruct(priced{Price: decimal.RequireFromString("-0.01")})
	require.Len(t, errs, 2)
	assert.Equal(t, "priced.Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "priced.Price", errs[1].FailedField)
	assert.Equal(t, "gte", errs[1].Tag)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(priced{Name: "ok"}))
	err := Check(priced{Name: "ok", Price: decimal.NewFromInt(-1)})
	assert.EqualError(t, err, "validation failed: field 'priced.Price' failed on tag 'gte'")
}
