package schema

import (
	"github.com/shopspring/decimal"
)

const (
	// identity headers checked by the api middleware
	HeaderCaller    = "X-Caller"
	HeaderTimestamp = "X-Timestamp"
	HeaderSignature = "X-Signature"
	// payable reads carry the attached value here
	HeaderPaymentValue = "X-Payment-Value"
)

type RespErr struct {
	Err string `json:"error"`
}

func (e RespErr) Error() string {
	return e.Err
}

type CreateRecordReq struct {
	RentInstanceId    string `json:"rentInstanceId"`
	YearMonth         string `json:"yearMonth"`
	DueDate           string `json:"dueDate"`
	GracePeriodDate   string `json:"gracePeriodDate"`
	Amount            string `json:"amount"`
	Tenant            string `json:"tenant"`
	PropertyAddress   string `json:"propertyAddress"`
	TenantId          string `json:"tenantId"`
	PropertyAddressId string `json:"propertyAddressId"`
}

type SetStatusReq struct {
	StatusCode int `json:"statusCode"`
}

type NotifyPaymentReq struct {
	Amount string `json:"amount"`
}

type ValuePaymentReq struct {
	Value decimal.Decimal `json:"value"`
}

type MessageReq struct {
	Text string `json:"text"`
}

// RespRecord extended projection served by the payable read and the admin read.
// Field order follows the record attribute list, existing clients index into it.
type RespRecord struct {
	YearMonth         string `json:"yearMonth"`
	DueDate           string `json:"dueDate"`
	GracePeriodDate   string `json:"gracePeriodDate"`
	Amount            string `json:"amount"`
	Tenant            string `json:"tenant"`
	PropertyAddress   string `json:"propertyAddress"`
	TenantId          string `json:"tenantId"`
	PropertyAddressId string `json:"propertyAddressId"`
	PaymentCount      int    `json:"paymentCount"` // len(paymentInstances), not the full history
	PaymentStatus     string `json:"paymentStatus"`
}

// LiteRecord projection returned by the admin list, one per created record
// in creation order.
type LiteRecord struct {
	RentInstanceId    string  `json:"rentInstanceId"`
	YearMonth         string  `json:"yearMonth"`
	DueDate           string  `json:"dueDate"`
	GracePeriodDate   string  `json:"gracePeriodDate"`
	Amount            string  `json:"amount"`
	Tenant            string  `json:"tenant"`
	PropertyAddress   string  `json:"propertyAddress"`
	TenantId          string  `json:"tenantId"`
	PropertyAddressId string  `json:"propertyAddressId"`
	PaymentInstances  []int64 `json:"paymentInstances"`
	Initialized       bool    `json:"initialized"`
	Owner             string  `json:"owner"`
	PaymentStatus     string  `json:"paymentStatus"`
}

type RespInfo struct {
	About       string `json:"about"`
	Version     string `json:"version"`
	CreatedDate int64  `json:"createdDate"`
}

type RespOwner struct {
	Owner string `json:"owner"`
}

type RespCount struct {
	Total int `json:"total"`
}

type RespBalance struct {
	Balance decimal.Decimal `json:"balance"`
}

type RespWithdraw struct {
	Amount decimal.Decimal `json:"amount"`
	To     string          `json:"to"`
}
