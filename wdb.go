package rentledger

import (
	"os"
	"path"
	"time"

	"github.com/rentlabs/rentledger/schema"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "rentledger.sqlite"

// Wdb is the relational mirror used for reporting queries and daily
// statistics. The kv store stays authoritative, a lost mirror row never
// corrupts the ledger.
type Wdb struct {
	Db *gorm.DB
}

func NewWdb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.RecordIndex{}, &schema.PaymentMirror{}, &schema.DailyStatistic{})
}

func (w *Wdb) InsertRecordIndex(idx schema.RecordIndex) error {
	return w.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&idx).Error
}

func (w *Wdb) InsertPaymentMirror(pm schema.PaymentMirror) error {
	return w.Db.Create(&pm).Error
}

func (w *Wdb) GetRecordsByTenant(tenantId string) ([]schema.RecordIndex, error) {
	res := make([]schema.RecordIndex, 0)
	err := w.Db.Where("tenant_id = ?", tenantId).Order("id asc").Find(&res).Error
	return res, err
}

func (w *Wdb) CountPayments() (int64, error) {
	var cnt int64
	err := w.Db.Model(&schema.PaymentMirror{}).Count(&cnt).Error
	return cnt, err
}

func (w *Wdb) GetPaymentsByRange(start, end time.Time) ([]schema.PaymentMirror, error) {
	res := make([]schema.PaymentMirror, 0)
	err := w.Db.Where("created_at >= ? and created_at < ?", start, end).Find(&res).Error
	return res, err
}

func (w *Wdb) UpdateDailyStatistic(stat schema.DailyStatistic) error {
	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).Create(&stat).Error
}

func (w *Wdb) GetDailyStatistics(limit int) ([]schema.DailyStatistic, error) {
	res := make([]schema.DailyStatistic, 0, limit)
	err := w.Db.Order("date desc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) Close() {
	if w.Db == nil {
		return
	}
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

// mirror writes, best effort

func (l *Ledger) mirrorRecord(record schema.RentRecord) {
	if l.wdb == nil || l.wdb.Db == nil {
		return
	}
	err := l.wdb.InsertRecordIndex(schema.RecordIndex{
		RentId:            record.RentInstanceId,
		TenantId:          record.TenantId,
		PropertyAddressId: record.PropertyAddressId,
		Owner:             record.Owner,
		YearMonth:         record.YearMonth,
		Extra: datatypes.JSONMap{
			"dueDate":         record.DueDate,
			"gracePeriodDate": record.GracePeriodDate,
			"amount":          record.Amount,
			"tenant":          record.Tenant,
			"propertyAddress": record.PropertyAddress,
		},
	})
	if err != nil {
		log.Error("mirror record", "rentId", record.RentInstanceId, "err", err)
	}
}

func (l *Ledger) mirrorPayment(rentId string, idx int, payment schema.Payment) {
	if l.wdb == nil || l.wdb.Db == nil {
		return
	}
	err := l.wdb.InsertPaymentMirror(schema.PaymentMirror{
		RentId:     rentId,
		Idx:        idx,
		Sender:     payment.Sender,
		EtherType:  payment.PaymentTypeEther,
		Amount:     payment.Amount,
		ValueAmt:   payment.AmountEther.String(),
		DateTime:   payment.DateTime,
		AcceptTime: time.Now().Unix(),
	})
	if err != nil {
		log.Error("mirror payment", "rentId", rentId, "idx", idx, "err", err)
	}
}
