package schema

import (
	"time"

	"gorm.io/datatypes"
)

// RecordIndex is the queryable mirror row written on every record creation.
// The kv store stays the source of truth, mirror writes are best effort.
type RecordIndex struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RentId            string `gorm:"index:idx_rent1,unique" json:"rentId"`
	TenantId          string `gorm:"index:idx_rent2" json:"tenantId"`
	PropertyAddressId string `gorm:"index:idx_rent3" json:"propertyAddressId"`
	Owner             string `gorm:"index:idx_rent4" json:"owner"`
	YearMonth         string `json:"yearMonth"`

	Extra datatypes.JSONMap `json:"extra"` // free-form scalar fields, never queried by the core
}

// PaymentMirror one row per appended payment, keyed like the kv store by rentId+idx
type PaymentMirror struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	RentId     string `gorm:"index:idx_pay1" json:"rentId"`
	Idx        int    `json:"idx"`
	Sender     string `gorm:"index:idx_pay2" json:"sender"`
	EtherType  bool   `json:"etherType"`
	Amount     string `json:"amount"`      // notification amount text
	ValueAmt   string `json:"valueAmt"`    // decimal string, "0" for notifications
	DateTime   int64  `json:"dateTime"`    // caller supplied ts
	AcceptTime int64  `json:"acceptTime"`  // ledger clock at append
}

type DailyStatistic struct {
	ID   uint      `gorm:"primarykey" json:"id"`
	Date time.Time `gorm:"index:idx_stat1,unique" json:"date"`

	Totals     int64  `json:"totals"`     // payments appended that day
	TotalValue string `json:"totalValue"` // decimal string sum of value payments
}
