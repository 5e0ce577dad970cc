package rentledger

import (
	"sync"

	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

// Custodian holds value attached to value payments until the admin withdraws.
// The ledger only ever talks to this narrow surface, real deployments can
// back it with a payment network account.
type Custodian interface {
	Deposit(amount decimal.Decimal) error
	BalanceOf() decimal.Decimal
	Transfer(to string, amount decimal.Decimal) error
}

type MemCustodian struct {
	mu      sync.Mutex
	balance decimal.Decimal
	payouts map[string]decimal.Decimal // external balances credited by Transfer
}

func NewMemCustodian() *MemCustodian {
	return &MemCustodian{
		balance: decimal.Zero,
		payouts: make(map[string]decimal.Decimal),
	}
}

func (c *MemCustodian) Deposit(amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = c.balance.Add(amount)
	return nil
}

func (c *MemCustodian) BalanceOf() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

func (c *MemCustodian) Transfer(to string, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if amount.GreaterThan(c.balance) {
		return schema.ErrInsufficientBalance
	}
	c.balance = c.balance.Sub(amount)
	c.payouts[to] = c.payouts[to].Add(amount)
	return nil
}

// PayoutOf reports what Transfer has credited to an identity so far.
func (c *MemCustodian) PayoutOf(to string) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payouts[to]
}
