package rentledger

import (
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

// AppendNotification records a caller-attested payment notification against
// rentId. Deliberately unguarded by identity: payments are attested, never
// verified against the record, and the key does not have to exist.
func (l *Ledger) AppendNotification(rentId, amountText, caller string, now int64) error {
	l.locker.Lock()
	defer l.locker.Unlock()

	payment := schema.Payment{
		DateTime:         now,
		Amount:           amountText,
		PaymentTypeEther: false,
		AmountEther:      decimal.Zero,
		Sender:           caller,
	}
	return l.appendPayment(rentId, payment)
}

// AppendValuePayment records a value payment and moves the value into the
// ledger's custodial balance. Fails with schema.ErrNonPositiveValue for a
// zero or negative value, appending nothing.
func (l *Ledger) AppendValuePayment(rentId string, value decimal.Decimal, caller string, now int64) error {
	if err := checkPositive(value); err != nil {
		return err
	}

	l.locker.Lock()
	defer l.locker.Unlock()

	payment := schema.Payment{
		DateTime:         now,
		Amount:           "",
		PaymentTypeEther: true,
		AmountEther:      value,
		Sender:           caller,
	}
	// deposit only once the payment is on disk, a failed append must not
	// credit the custodial balance
	if err := l.appendPayment(rentId, payment); err != nil {
		return err
	}
	return l.custodian.Deposit(value)
}

// appendPayment assigns the next position index and pushes the timestamp onto
// the record's paymentInstances. Caller holds the locker.
func (l *Ledger) appendPayment(rentId string, payment schema.Payment) error {
	record, err := l.store.LoadRecord(rentId)
	if err != nil && err != schema.ErrNotExist {
		return err
	}
	record.RentInstanceId = rentId

	idx := len(record.PaymentInstances)
	if err := l.store.SavePayment(rentId, idx, payment); err != nil {
		return err
	}
	record.PaymentInstances = append(record.PaymentInstances, payment.DateTime)
	if err := l.store.SaveRecord(record); err != nil {
		return err
	}

	l.projCache.Cache.Delete(rentId)
	l.mirrorPayment(rentId, idx, payment)
	log.Debug("payment appended", "rentId", rentId, "idx", idx, "ether", payment.PaymentTypeEther)
	return nil
}

// History reconstructs the full payment sequence for rentId in append order.
// A key with no payments, existing or not, yields an empty sequence.
func (l *Ledger) History(rentId string, caller string, payValue decimal.Decimal) ([]schema.Payment, error) {
	if err := checkPositive(payValue); err != nil {
		return nil, err
	}

	record, err := l.store.LoadRecord(rentId)
	if err == schema.ErrNotExist {
		return []schema.Payment{}, nil
	}
	if err != nil {
		return nil, err
	}

	payments := make([]schema.Payment, 0, len(record.PaymentInstances))
	for idx := range record.PaymentInstances {
		payment, err := l.store.LoadPayment(rentId, idx)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}
