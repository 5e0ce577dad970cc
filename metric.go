package rentledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "rentledger"
)

var (
	recordTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "record_total",
			Help:      "created rent records",
		},
	)
	paymentTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "payment_total",
			Help:      "appended payments over all records",
		},
	)
	custodialBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "custodial_balance",
			Help:      "value held for the admin",
		},
	)
)

func init() {
	prometheus.MustRegister(
		recordTotal,
		paymentTotal,
		custodialBalance,
	)
}

func metricRecordTotal(n int) {
	recordTotal.Set(float64(n))
}

func metricPaymentTotal(n int64) {
	paymentTotal.Set(float64(n))
}

func metricCustodialBalance(bal decimal.Decimal) {
	f, _ := bal.Float64()
	custodialBalance.Set(f)
}
