package rentledger

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

func (l *Ledger) runJobs() {
	l.scheduler.Every(1).Minute().SingletonMode().Do(l.updateMetrics)
	l.scheduler.Every(10).Minute().SingletonMode().Do(l.updateDailyStatistic)

	l.scheduler.StartAsync()
}

func (l *Ledger) updateMetrics() {
	rentIds, err := l.store.LoadRentIds()
	if err != nil {
		log.Error("load rentIds", "err", err)
		return
	}
	metricRecordTotal(len(rentIds))
	metricCustodialBalance(l.custodian.BalanceOf())

	if l.wdb == nil || l.wdb.Db == nil {
		return
	}
	cnt, err := l.wdb.CountPayments()
	if err != nil {
		log.Error("count payments", "err", err)
		return
	}
	metricPaymentTotal(cnt)
}

// updateDailyStatistic walks every record concurrently and aggregates the
// payments accepted today (UTC) into the reporting mirror.
func (l *Ledger) updateDailyStatistic() {
	if l.wdb == nil || l.wdb.Db == nil {
		return
	}
	rentIds, err := l.store.LoadRentIds()
	if err != nil {
		log.Error("load rentIds", "err", err)
		return
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	dayStart := day.Unix()
	dayEnd := dayStart + 24*60*60

	var (
		mu         sync.Mutex
		totals     int64
		totalValue = decimal.Zero
		wg         sync.WaitGroup
	)
	p, err := ants.NewPoolWithFunc(10, func(i interface{}) {
		defer wg.Done()
		rentId := i.(string)
		record, err := l.store.LoadRecord(rentId)
		if err != nil {
			log.Error("load record", "rentId", rentId, "err", err)
			return
		}
		cnt := int64(0)
		val := decimal.Zero
		for idx, ts := range record.PaymentInstances {
			if ts < dayStart || ts >= dayEnd {
				continue
			}
			payment, err := l.store.LoadPayment(rentId, idx)
			if err != nil {
				log.Error("load payment", "rentId", rentId, "idx", idx, "err", err)
				continue
			}
			cnt++
			if payment.PaymentTypeEther {
				val = val.Add(payment.AmountEther)
			}
		}
		mu.Lock()
		totals += cnt
		totalValue = totalValue.Add(val)
		mu.Unlock()
	})
	if err != nil {
		log.Error("new ants pool", "err", err)
		return
	}
	defer p.Release()

	for _, rentId := range rentIds {
		wg.Add(1)
		_ = p.Invoke(rentId)
	}
	wg.Wait()

	if err := l.wdb.UpdateDailyStatistic(schema.DailyStatistic{
		Date:       day,
		Totals:     totals,
		TotalValue: totalValue.String(),
	}); err != nil {
		log.Error("update daily statistic", "err", err)
	}
}
