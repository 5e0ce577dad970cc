package schema

var (
	// bucket
	RentRecordBucket = "rent-record-bucket" // key: rentInstanceId, val: json(RentRecord)
	PaymentBucket    = "payment-bucket"     // key: rentInstanceId#idx, val: json(Payment); idx is append position
	MessageBucket    = "message-bucket"     // key: %08d append index, val: json(Message)
	LedgerMetaBucket = "ledger-meta-bucket" // owner, created-at, rent-ids, message-count
)

// LedgerMetaBucket keys
const (
	MetaOwnerKey        = "owner"
	MetaCreatedAtKey    = "created-at"
	MetaRentIdsKey      = "rent-ids" // json array, the only enumeration order for records
	MetaMessageCountKey = "message-count"
)
