package rentledger

import (
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

// Guard predicates. Every public operation runs its guard before touching
// state, a guard failure never leaves a partial mutation behind.

func (l *Ledger) isAdmin(caller string) error {
	if caller != l.owner {
		return schema.ErrUnauthorized
	}
	return nil
}

// isOwnerOrAdmin takes the loaded record, not the key. For a key that was
// never written the record owner is the empty identity, so the predicate
// degenerates to isAdmin. That pass-through is deliberate.
func (l *Ledger) isOwnerOrAdmin(record schema.RentRecord, caller string) error {
	if caller == l.owner || caller == record.Owner {
		return nil
	}
	return schema.ErrUnauthorized
}

func checkPositive(value decimal.Decimal) error {
	if !value.IsPositive() {
		return schema.ErrNonPositiveValue
	}
	return nil
}

func (l *Ledger) checkUnique(rentId string) error {
	record, err := l.store.LoadRecord(rentId)
	if err == schema.ErrNotExist {
		return nil
	}
	if err != nil {
		return err
	}
	if record.Initialized {
		return schema.ErrRecordExist
	}
	return nil
}
