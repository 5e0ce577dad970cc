package schema

import (
	"github.com/shopspring/decimal"
)

const (
	StatusCurrent = "CURRENT"
	StatusLate    = "LATE"
)

// StatusFromCode code 0 is current, every other code is late
func StatusFromCode(code int) string {
	if code == 0 {
		return StatusCurrent
	}
	return StatusLate
}

// RentRecord is one rent obligation keyed by RentInstanceId
// ("yearMonth#tenantId#propertyAddressId" by convention, the ledger treats it
// as opaque). Scalar attributes are opaque text, never parsed or validated.
type RentRecord struct {
	RentInstanceId    string `json:"rentInstanceId"`
	YearMonth         string `json:"yearMonth"`
	DueDate           string `json:"dueDate"`
	GracePeriodDate   string `json:"gracePeriodDate"`
	Amount            string `json:"amount"`
	Tenant            string `json:"tenant"`
	PropertyAddress   string `json:"propertyAddress"`
	TenantId          string `json:"tenantId"`
	PropertyAddressId string `json:"propertyAddressId"`

	// PaymentInstances holds one timestamp per appended payment; its length is
	// the authoritative payment count and position order, timestamps may repeat
	PaymentInstances []int64 `json:"paymentInstances"`

	// Initialized is false for shell entries written by SetStatus on a key
	// that was never created; shells never join the enumeration sequence
	Initialized bool   `json:"initialized"`
	Owner       string `json:"owner"`

	PaymentStatus string `json:"paymentStatus"`
}

// Payment is one append-only ledger entry, stored under rentId#idx.
// Exactly one of Amount (notification text) and AmountEther (attached value)
// carries the payment, selected by PaymentTypeEther.
type Payment struct {
	DateTime         int64           `json:"dateTime"`
	Amount           string          `json:"amount"`
	PaymentTypeEther bool            `json:"paymentTypeEther"`
	AmountEther      decimal.Decimal `json:"amountEther"`
	Sender           string          `json:"sender"`
}

// Message one admin broadcast, append only
type Message struct {
	DateTime int64  `json:"dateTime"`
	Text     string `json:"text"`
}

// StatusMessage is the kafka payload published on every message append
type StatusMessage struct {
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
}
