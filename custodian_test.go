package rentledger

import (
	"testing"

	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemCustodian(t *testing.T) {
	c := NewMemCustodian()
	assert.True(t, c.BalanceOf().IsZero())

	assert.NoError(t, c.Deposit(decimal.NewFromInt(30)))
	assert.NoError(t, c.Deposit(decimal.RequireFromString("12.5")))
	assert.True(t, decimal.RequireFromString("42.5").Equal(c.BalanceOf()))

	err := c.Transfer(testAdmin, decimal.NewFromInt(100))
	assert.Equal(t, schema.ErrInsufficientBalance, err)
	assert.True(t, decimal.RequireFromString("42.5").Equal(c.BalanceOf()))

	assert.NoError(t, c.Transfer(testAdmin, decimal.RequireFromString("42.5")))
	assert.True(t, c.BalanceOf().IsZero())
	assert.True(t, decimal.RequireFromString("42.5").Equal(c.PayoutOf(testAdmin)))
}
