package rawdb

import (
	"sync"

	"github.com/rentlabs/rentledger/schema"
)

const MemType = "memory"

// MemDB keeps everything in process memory. Meant for tests and local dev,
// nothing survives a restart.
type MemDB struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func NewMemDB() *MemDB {
	return &MemDB{
		buckets: make(map[string]map[string][]byte),
	}
}

func (m *MemDB) Type() string {
	return MemType
}

func (m *MemDB) Put(bucket, key string, value []byte) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bkt, ok := m.buckets[bucket]
	if !ok {
		bkt = make(map[string][]byte)
		m.buckets[bucket] = bkt
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	bkt[key] = cp
	return nil
}

func (m *MemDB) Get(bucket, key string) (data []byte, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.buckets[bucket][key]
	if !ok {
		return nil, schema.ErrNotExist
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (m *MemDB) GetAllKey(bucket string) (keys []string, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys = make([]string, 0, len(m.buckets[bucket]))
	for k := range m.buckets[bucket] {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemDB) Delete(bucket, key string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets[bucket], key)
	return nil
}

func (m *MemDB) Exist(bucket, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket][key]
	return ok
}

func (m *MemDB) Close() (err error) {
	return nil
}
