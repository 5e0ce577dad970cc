package rentledger

import (
	"testing"

	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStoreRecordRoundTrip(t *testing.T) {
	s := NewMemStore()

	_, err := s.LoadRecord("h1")
	assert.Equal(t, schema.ErrNotExist, err)
	assert.False(t, s.ExistRecord("h1"))

	record := schema.RentRecord{
		RentInstanceId:   "h1",
		YearMonth:        "2023-09",
		Amount:           "2100.53",
		Tenant:           "Kirk",
		PaymentInstances: []int64{1, 2, 3},
		Initialized:      true,
		Owner:            testTenant,
		PaymentStatus:    schema.StatusCurrent,
	}
	assert.NoError(t, s.SaveRecord(record))
	assert.True(t, s.ExistRecord("h1"))

	got, err := s.LoadRecord("h1")
	assert.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestStoreRentIds(t *testing.T) {
	s := NewMemStore()

	ids, err := s.LoadRentIds()
	assert.NoError(t, err)
	assert.Equal(t, []string{}, ids)

	assert.NoError(t, s.SaveRentIds([]string{"b", "a", "c"}))
	ids, err = s.LoadRentIds()
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestStorePaymentRoundTrip(t *testing.T) {
	s := NewMemStore()

	_, err := s.LoadPayment("h1", 0)
	assert.Equal(t, schema.ErrNotExist, err)

	payment := schema.Payment{
		DateTime:         1693542100,
		Amount:           "",
		PaymentTypeEther: true,
		AmountEther:      decimal.RequireFromString("0.75"),
		Sender:           testTenant,
	}
	assert.NoError(t, s.SavePayment("h1", 0, payment))

	got, err := s.LoadPayment("h1", 0)
	assert.NoError(t, err)
	assert.Equal(t, payment.DateTime, got.DateTime)
	assert.True(t, payment.AmountEther.Equal(got.AmountEther))
	assert.True(t, got.PaymentTypeEther)

	// same timestamp, different position, no collision
	assert.NoError(t, s.SavePayment("h1", 1, payment))
	_, err = s.LoadPayment("h1", 1)
	assert.NoError(t, err)
}

func TestStoreMessages(t *testing.T) {
	s := NewMemStore()

	cnt, err := s.LoadMessageCount()
	assert.NoError(t, err)
	assert.Equal(t, 0, cnt)

	assert.NoError(t, s.SaveMessage(0, schema.Message{DateTime: 1, Text: "one"}))
	assert.NoError(t, s.SaveMessage(1, schema.Message{DateTime: 2, Text: "two"}))

	cnt, err = s.LoadMessageCount()
	assert.NoError(t, err)
	assert.Equal(t, 2, cnt)

	msgs, err := s.LoadAllMessages()
	assert.NoError(t, err)
	assert.Equal(t, []schema.Message{{DateTime: 1, Text: "one"}, {DateTime: 2, Text: "two"}}, msgs)
}

func TestStoreMeta(t *testing.T) {
	s := NewMemStore()

	_, err := s.LoadOwner()
	assert.Equal(t, schema.ErrNotExist, err)

	assert.NoError(t, s.SaveOwner(testAdmin))
	owner, err := s.LoadOwner()
	assert.NoError(t, err)
	assert.Equal(t, testAdmin, owner)

	assert.NoError(t, s.SaveCreatedAt(1693542100))
	ts, err := s.LoadCreatedAt()
	assert.NoError(t, err)
	assert.Equal(t, int64(1693542100), ts)
}

func TestBoltStoreRoundTrip(t *testing.T) {
	s, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	defer s.Close()

	record := schema.RentRecord{
		RentInstanceId: "h1",
		Amount:         "10",
		Initialized:    true,
	}
	assert.NoError(t, s.SaveRecord(record))
	got, err := s.LoadRecord("h1")
	assert.NoError(t, err)
	assert.Equal(t, "10", got.Amount)
}
