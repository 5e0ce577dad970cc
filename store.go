package rentledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rentlabs/rentledger/rawdb"
	"github.com/rentlabs/rentledger/schema"
)

// Store is the typed ledger store over an injected key-value backend.
// Callers that mutate it must hold the ledger write locker, the store itself
// does no cross-key coordination.
type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	kvDb, err := rawdb.NewBoltDB(boltDirPath)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: kvDb}, nil
}

func NewMongoStore(ctx context.Context, uri string) (*Store, error) {
	kvDb, err := rawdb.NewMongoDB(ctx, uri)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: kvDb}, nil
}

func NewS3Store(accKey, secretKey, region, bktPrefix, endpoint string) (*Store, error) {
	kvDb, err := rawdb.NewS3DB(accKey, secretKey, region, bktPrefix, endpoint)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: kvDb}, nil
}

func NewMemStore() *Store {
	return &Store{KVDb: rawdb.NewMemDB()}
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

// record

func (s *Store) SaveRecord(record schema.RentRecord) error {
	val, err := json.Marshal(&record)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.RentRecordBucket, record.RentInstanceId, val)
}

// LoadRecord returns schema.ErrNotExist for a key that was never written.
func (s *Store) LoadRecord(rentId string) (record schema.RentRecord, err error) {
	data, err := s.KVDb.Get(schema.RentRecordBucket, rentId)
	if err != nil {
		return
	}
	err = json.Unmarshal(data, &record)
	return
}

func (s *Store) ExistRecord(rentId string) bool {
	return s.KVDb.Exist(schema.RentRecordBucket, rentId)
}

// rentIds is the only enumeration order for records, the keyed bucket is not
// independently ordered.

func (s *Store) SaveRentIds(rentIds []string) error {
	val, err := json.Marshal(rentIds)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.LedgerMetaBucket, schema.MetaRentIdsKey, val)
}

func (s *Store) LoadRentIds() ([]string, error) {
	data, err := s.KVDb.Get(schema.LedgerMetaBucket, schema.MetaRentIdsKey)
	if err == schema.ErrNotExist {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	rentIds := make([]string, 0)
	err = json.Unmarshal(data, &rentIds)
	return rentIds, err
}

// payment

func paymentKey(rentId string, idx int) string {
	return fmt.Sprintf("%s#%d", rentId, idx)
}

func (s *Store) SavePayment(rentId string, idx int, payment schema.Payment) error {
	val, err := json.Marshal(&payment)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.PaymentBucket, paymentKey(rentId, idx), val)
}

func (s *Store) LoadPayment(rentId string, idx int) (payment schema.Payment, err error) {
	data, err := s.KVDb.Get(schema.PaymentBucket, paymentKey(rentId, idx))
	if err != nil {
		return
	}
	err = json.Unmarshal(data, &payment)
	return
}

// message

func messageKey(idx int) string {
	return fmt.Sprintf("%08d", idx)
}

func (s *Store) SaveMessage(idx int, msg schema.Message) error {
	val, err := json.Marshal(&msg)
	if err != nil {
		return err
	}
	if err := s.KVDb.Put(schema.MessageBucket, messageKey(idx), val); err != nil {
		return err
	}
	return s.KVDb.Put(schema.LedgerMetaBucket, schema.MetaMessageCountKey, []byte(strconv.Itoa(idx+1)))
}

func (s *Store) LoadMessageCount() (int, error) {
	data, err := s.KVDb.Get(schema.LedgerMetaBucket, schema.MetaMessageCountKey)
	if err == schema.ErrNotExist {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(data))
}

func (s *Store) LoadAllMessages() ([]schema.Message, error) {
	cnt, err := s.LoadMessageCount()
	if err != nil {
		return nil, err
	}
	msgs := make([]schema.Message, 0, cnt)
	for i := 0; i < cnt; i++ {
		data, err := s.KVDb.Get(schema.MessageBucket, messageKey(i))
		if err != nil {
			return nil, err
		}
		msg := schema.Message{}
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// ledger meta, set once at construction

func (s *Store) SaveOwner(owner string) error {
	return s.KVDb.Put(schema.LedgerMetaBucket, schema.MetaOwnerKey, []byte(owner))
}

func (s *Store) LoadOwner() (string, error) {
	data, err := s.KVDb.Get(schema.LedgerMetaBucket, schema.MetaOwnerKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) SaveCreatedAt(ts int64) error {
	return s.KVDb.Put(schema.LedgerMetaBucket, schema.MetaCreatedAtKey, []byte(strconv.FormatInt(ts, 10)))
}

func (s *Store) LoadCreatedAt() (int64, error) {
	data, err := s.KVDb.Get(schema.LedgerMetaBucket, schema.MetaCreatedAtKey)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(data), 10, 64)
}
