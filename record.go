package rentledger

import (
	"encoding/json"

	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

// CreateRecord creates the rent record for req.RentInstanceId exactly once.
// A key already holding an initialized record fails with schema.ErrRecordExist
// and mutates nothing. Payments recorded against the key before creation
// survive on the record.
func (l *Ledger) CreateRecord(req schema.CreateRecordReq, caller string) error {
	l.locker.Lock()
	defer l.locker.Unlock()

	if err := l.checkUnique(req.RentInstanceId); err != nil {
		return err
	}

	record, err := l.store.LoadRecord(req.RentInstanceId)
	if err != nil && err != schema.ErrNotExist {
		return err
	}
	record.RentInstanceId = req.RentInstanceId
	record.YearMonth = req.YearMonth
	record.DueDate = req.DueDate
	record.GracePeriodDate = req.GracePeriodDate
	record.Amount = req.Amount
	record.Tenant = req.Tenant
	record.PropertyAddress = req.PropertyAddress
	record.TenantId = req.TenantId
	record.PropertyAddressId = req.PropertyAddressId
	record.Initialized = true
	record.Owner = caller
	record.PaymentStatus = schema.StatusCurrent
	if record.PaymentInstances == nil {
		record.PaymentInstances = make([]int64, 0)
	}

	if err := l.store.SaveRecord(record); err != nil {
		return err
	}

	rentIds, err := l.store.LoadRentIds()
	if err != nil {
		return err
	}
	rentIds = append(rentIds, req.RentInstanceId)
	if err := l.store.SaveRentIds(rentIds); err != nil {
		return err
	}

	l.projCache.Cache.Delete(req.RentInstanceId)
	l.mirrorRecord(record)
	metricRecordTotal(len(rentIds))
	log.Debug("record created", "rentId", req.RentInstanceId, "owner", caller)
	return nil
}

// SetStatus maps statusCode 0 to CURRENT and any other value to LATE.
// Operating on a key that was never created writes an uninitialized shell
// entry and leaves the enumeration sequence untouched, matching the original
// keyed-store behavior.
func (l *Ledger) SetStatus(rentId string, statusCode int, caller string) error {
	l.locker.Lock()
	defer l.locker.Unlock()

	record, err := l.store.LoadRecord(rentId)
	if err != nil && err != schema.ErrNotExist {
		return err
	}
	if err := l.isOwnerOrAdmin(record, caller); err != nil {
		return err
	}

	record.RentInstanceId = rentId
	record.PaymentStatus = schema.StatusFromCode(statusCode)
	if err := l.store.SaveRecord(record); err != nil {
		return err
	}
	l.projCache.Cache.Delete(rentId)
	return nil
}

// GetRecord is the payable read: any caller attaching a positive value gets
// the extended projection. The value is checked, not escrowed or priced.
func (l *Ledger) GetRecord(rentId string, caller string, payValue decimal.Decimal) (schema.RespRecord, error) {
	if err := checkPositive(payValue); err != nil {
		return schema.RespRecord{}, err
	}
	return l.loadProjection(rentId)
}

// GetRecordAdmin same projection, admin only, free of charge.
func (l *Ledger) GetRecordAdmin(rentId string, caller string) (schema.RespRecord, error) {
	if err := l.isAdmin(caller); err != nil {
		return schema.RespRecord{}, err
	}
	return l.loadProjection(rentId)
}

func (l *Ledger) loadProjection(rentId string) (resp schema.RespRecord, err error) {
	if data, err := l.projCache.Cache.Get(rentId); err == nil {
		if json.Unmarshal(data, &resp) == nil {
			return resp, nil
		}
	}

	// a key never written projects zero values, no existence error
	record, err := l.store.LoadRecord(rentId)
	if err != nil && err != schema.ErrNotExist {
		return schema.RespRecord{}, err
	}
	resp = schema.RespRecord{
		YearMonth:         record.YearMonth,
		DueDate:           record.DueDate,
		GracePeriodDate:   record.GracePeriodDate,
		Amount:            record.Amount,
		Tenant:            record.Tenant,
		PropertyAddress:   record.PropertyAddress,
		TenantId:          record.TenantId,
		PropertyAddressId: record.PropertyAddressId,
		PaymentCount:      len(record.PaymentInstances),
		PaymentStatus:     record.PaymentStatus,
	}
	if data, err := json.Marshal(&resp); err == nil {
		_ = l.projCache.Cache.Set(rentId, data)
	}
	return resp, nil
}

// ListAllLite returns one lite projection per created record, in creation order.
func (l *Ledger) ListAllLite(caller string) ([]schema.LiteRecord, error) {
	if err := l.isAdmin(caller); err != nil {
		return nil, err
	}

	rentIds, err := l.store.LoadRentIds()
	if err != nil {
		return nil, err
	}
	lites := make([]schema.LiteRecord, 0, len(rentIds))
	for _, rentId := range rentIds {
		record, err := l.store.LoadRecord(rentId)
		if err != nil {
			return nil, err
		}
		lites = append(lites, schema.LiteRecord{
			RentInstanceId:    record.RentInstanceId,
			YearMonth:         record.YearMonth,
			DueDate:           record.DueDate,
			GracePeriodDate:   record.GracePeriodDate,
			Amount:            record.Amount,
			Tenant:            record.Tenant,
			PropertyAddress:   record.PropertyAddress,
			TenantId:          record.TenantId,
			PropertyAddressId: record.PropertyAddressId,
			PaymentInstances:  record.PaymentInstances,
			Initialized:       record.Initialized,
			Owner:             record.Owner,
			PaymentStatus:     record.PaymentStatus,
		})
	}
	return lites, nil
}

func (l *Ledger) Size(caller string) (int, error) {
	if err := l.isAdmin(caller); err != nil {
		return 0, err
	}
	rentIds, err := l.store.LoadRentIds()
	if err != nil {
		return 0, err
	}
	return len(rentIds), nil
}
