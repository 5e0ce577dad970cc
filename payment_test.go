package rentledger

import (
	"errors"
	"testing"

	"github.com/rentlabs/rentledger/rawdb"
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var readFee = decimal.NewFromInt(1)

// one notification payment, full round trip
func TestNotificationPayment(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))

	t1 := int64(1693542100)
	assert.NoError(t, l.AppendNotification("h1", "2100.53", testTenant, t1))

	payments, err := l.History("h1", testStranger, readFee)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(payments))
	assert.Equal(t, t1, payments[0].DateTime)
	assert.Equal(t, "2100.53", payments[0].Amount)
	assert.False(t, payments[0].PaymentTypeEther)
	assert.True(t, payments[0].AmountEther.IsZero())
	assert.Equal(t, testTenant, payments[0].Sender)
}

func TestPaymentOrdering(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))

	// supplied timestamps run backwards, append order still wins
	assert.NoError(t, l.AppendNotification("h1", "100", testTenant, 300))
	assert.NoError(t, l.AppendValuePayment("h1", decimal.NewFromInt(200), testStranger, 200))
	assert.NoError(t, l.AppendNotification("h1", "300", testTenant, 100))

	payments, err := l.History("h1", testTenant, readFee)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(payments))
	assert.Equal(t, "100", payments[0].Amount)
	assert.True(t, payments[1].PaymentTypeEther)
	assert.Equal(t, "300", payments[2].Amount)
	assert.Equal(t, []int64{300, 200, 100}, recordInstances(t, l, "h1"))
}

// same-timestamp payments must not collide, position index keys them
func TestSameTimestampPayments(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))

	ts := int64(1693542100)
	assert.NoError(t, l.AppendNotification("h1", "1", testTenant, ts))
	assert.NoError(t, l.AppendNotification("h1", "2", testTenant, ts))
	assert.NoError(t, l.AppendNotification("h1", "3", testTenant, ts))

	payments, err := l.History("h1", testTenant, readFee)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(payments))
	for i, want := range []string{"1", "2", "3"} {
		assert.Equal(t, want, payments[i].Amount)
	}
}

func TestPaymentDuality(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))

	assert.NoError(t, l.AppendNotification("h1", "42.42", testTenant, 1))
	assert.NoError(t, l.AppendValuePayment("h1", decimal.RequireFromString("0.5"), testTenant, 2))

	payments, err := l.History("h1", testTenant, readFee)
	assert.NoError(t, err)
	for _, p := range payments {
		notif := p.Amount != "" && !p.PaymentTypeEther
		value := p.AmountEther.IsPositive() && p.PaymentTypeEther
		assert.True(t, notif != value, "exactly one payment form must hold")
	}
}

func TestValuePaymentGuard(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))

	err := l.AppendValuePayment("h1", decimal.Zero, testTenant, 1)
	assert.Equal(t, schema.ErrNonPositiveValue, err)
	err = l.AppendValuePayment("h1", decimal.NewFromInt(-7), testTenant, 1)
	assert.Equal(t, schema.ErrNonPositiveValue, err)

	// nothing appended, nothing deposited
	assert.Equal(t, 0, len(recordInstances(t, l, "h1")))
	assert.True(t, l.custodian.BalanceOf().IsZero())
}

// payments against unknown keys are accepted, caller attested
func TestPaymentOnMissingKey(t *testing.T) {
	l := newTestLedger(t)

	assert.NoError(t, l.AppendNotification("ghost", "77", testStranger, 9))

	payments, err := l.History("ghost", testTenant, readFee)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(payments))

	// the shell never joins the enumeration sequence
	size, err := l.Size(testAdmin)
	assert.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestHistoryGuardAndMissingKey(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.History("h1", testTenant, decimal.Zero)
	assert.Equal(t, schema.ErrNonPositiveValue, err)

	payments, err := l.History("never-written", testTenant, readFee)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(payments))
}

func TestBalanceInvariantAndWithdraw(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))

	v1 := decimal.RequireFromString("1050.25")
	v2 := decimal.RequireFromString("1050.28")
	assert.NoError(t, l.AppendValuePayment("h1", v1, testTenant, 1))
	assert.NoError(t, l.AppendValuePayment("h1", v2, testStranger, 2))

	total := v1.Add(v2)
	bal, err := l.Balance(testAdmin)
	assert.NoError(t, err)
	assert.True(t, total.Equal(bal))

	_, err = l.Balance(testTenant)
	assert.Equal(t, schema.ErrUnauthorized, err)
	_, err = l.Withdraw(testTenant)
	assert.Equal(t, schema.ErrUnauthorized, err)

	got, err := l.Withdraw(testAdmin)
	assert.NoError(t, err)
	assert.True(t, total.Equal(got))

	bal, err = l.Balance(testAdmin)
	assert.NoError(t, err)
	assert.True(t, bal.IsZero())
	assert.True(t, total.Equal(l.custodian.(*MemCustodian).PayoutOf(testAdmin)))

	// empty withdraw is a no-op
	got, err = l.Withdraw(testAdmin)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

// faultDB fails every Put into one bucket, the rest delegates
type faultDB struct {
	rawdb.KeyValueDB
	failBucket string
}

func (f *faultDB) Put(bucket, key string, value []byte) error {
	if bucket == f.failBucket {
		return errors.New("disk full")
	}
	return f.KeyValueDB.Put(bucket, key, value)
}

// a failed append must not credit the custodial balance
func TestValuePaymentNoDepositOnFailedAppend(t *testing.T) {
	for _, failBucket := range []string{schema.PaymentBucket, schema.RentRecordBucket} {
		l := newTestLedger(t)
		assert.NoError(t, l.CreateRecord(testRecordReq("h1"), testTenant))
		l.store = &Store{KVDb: &faultDB{KeyValueDB: l.store.KVDb, failBucket: failBucket}}

		err := l.AppendValuePayment("h1", decimal.NewFromInt(500), testTenant, 1)
		assert.Error(t, err)
		assert.True(t, l.custodian.BalanceOf().IsZero())

		bal, err := l.Balance(testAdmin)
		assert.NoError(t, err)
		assert.True(t, bal.IsZero())
	}
}

func recordInstances(t *testing.T, l *Ledger, rentId string) []int64 {
	record, err := l.store.LoadRecord(rentId)
	if err == schema.ErrNotExist {
		return []int64{}
	}
	assert.NoError(t, err)
	return record.PaymentInstances
}
