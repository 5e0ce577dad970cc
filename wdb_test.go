package rentledger

import (
	"testing"
	"time"

	"github.com/rentlabs/rentledger/schema"
	"github.com/stretchr/testify/assert"
)

func newTestWdb(t *testing.T) *Wdb {
	w := NewSqliteDb(t.TempDir())
	assert.NoError(t, w.Migrate())
	t.Cleanup(w.Close)
	return w
}

func TestWdbRecordIndex(t *testing.T) {
	w := newTestWdb(t)

	idx := schema.RecordIndex{
		RentId:            "2022-07#kirk1#main1",
		TenantId:          "kirk1",
		PropertyAddressId: "main1",
		Owner:             testAdmin,
		YearMonth:         "2022-07",
	}
	assert.NoError(t, w.InsertRecordIndex(idx))
	// duplicate rentId is swallowed, create over shell replays the mirror write
	assert.NoError(t, w.InsertRecordIndex(idx))

	res, err := w.GetRecordsByTenant("kirk1")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "2022-07#kirk1#main1", res[0].RentId)

	res, err = w.GetRecordsByTenant("nobody")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(res))
}

func TestWdbPaymentMirror(t *testing.T) {
	w := newTestWdb(t)

	assert.NoError(t, w.InsertPaymentMirror(schema.PaymentMirror{
		RentId:     "2022-07#kirk1#main1",
		Idx:        0,
		Sender:     testTenant,
		EtherType:  false,
		Amount:     "2100.53",
		ValueAmt:   "0",
		DateTime:   1656633600,
		AcceptTime: time.Now().Unix(),
	}))
	assert.NoError(t, w.InsertPaymentMirror(schema.PaymentMirror{
		RentId:     "2022-07#kirk1#main1",
		Idx:        1,
		Sender:     testTenant,
		EtherType:  true,
		ValueAmt:   "2100.53",
		DateTime:   1656720000,
		AcceptTime: time.Now().Unix(),
	}))

	cnt, err := w.CountPayments()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), cnt)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	pms, err := w.GetPaymentsByRange(start, end)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(pms))
}

func TestWdbDailyStatistic(t *testing.T) {
	w := newTestWdb(t)

	day := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, w.UpdateDailyStatistic(schema.DailyStatistic{
		Date:       day,
		Totals:     1,
		TotalValue: "2100.53",
	}))
	// same day upserts in place
	assert.NoError(t, w.UpdateDailyStatistic(schema.DailyStatistic{
		Date:       day,
		Totals:     3,
		TotalValue: "6301.59",
	}))
	assert.NoError(t, w.UpdateDailyStatistic(schema.DailyStatistic{
		Date:       day.AddDate(0, 0, 1),
		Totals:     1,
		TotalValue: "0",
	}))

	stats, err := w.GetDailyStatistics(10)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(stats))
	assert.Equal(t, int64(1), stats[0].Totals)
	assert.Equal(t, int64(3), stats[1].Totals)
	assert.Equal(t, "6301.59", stats[1].TotalValue)
}
