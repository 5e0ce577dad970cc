package rentledger

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/rentlabs/rentledger/cache"
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

const (
	aboutText = "rentledger: tamper-evident rental payment ledger"
	version   = "v1.1.0"
)

type Ledger struct {
	store  *Store
	engine *gin.Engine
	// all mutating ops serialize on this locker; uniqueness check-and-set and
	// payment index assignment stay atomic
	locker sync.Mutex

	owner     string // admin identity
	createdAt int64
	tsMu      sync.Mutex
	lastTs    int64
	clock     func() int64

	custodian Custodian
	wdb       *Wdb
	kwriter   *KWriter
	projCache *cache.Cache
	scheduler *gocron.Scheduler

	enableSigCheck bool
	port           string
}

func New(
	boltDirPath, mysqlDsn string, sqliteDir string, useSqlite bool,
	useMongo bool, mongoUri string,
	useS3 bool, s3AccKey, s3SecretKey, s3BucketPrefix, s3Region, s3Endpoint string,
	owner string, kafkaUri string, enableSigCheck bool, port string,
) *Ledger {
	var err error
	store := &Store{}
	if useS3 {
		store, err = NewS3Store(s3AccKey, s3SecretKey, s3Region, s3BucketPrefix, s3Endpoint)
	} else if useMongo {
		store, err = NewMongoStore(context.Background(), mongoUri)
	} else {
		store, err = NewBoltStore(boltDirPath)
	}
	if err != nil {
		panic(err)
	}

	wdb := &Wdb{}
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewWdb(mysqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	var kwriter *KWriter
	if kafkaUri != "" {
		kwriter, err = NewKWriter(StatusTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	projCache, err := cache.NewLocalCache(time.Minute)
	if err != nil {
		panic(err)
	}

	l := &Ledger{
		store:          store,
		engine:         gin.Default(),
		locker:         sync.Mutex{},
		clock:          func() int64 { return time.Now().Unix() },
		custodian:      NewMemCustodian(),
		wdb:            wdb,
		kwriter:        kwriter,
		projCache:      projCache,
		scheduler:      gocron.NewScheduler(time.UTC),
		enableSigCheck: enableSigCheck,
		port:           port,
	}
	if err := l.initMeta(owner); err != nil {
		panic(err)
	}
	return l
}

// initMeta pins owner and creation timestamp on first boot; both are
// immutable afterwards.
func (l *Ledger) initMeta(owner string) error {
	storedOwner, err := l.store.LoadOwner()
	if err == schema.ErrNotExist {
		if err := l.store.SaveOwner(owner); err != nil {
			return err
		}
		createdAt := l.clock()
		if err := l.store.SaveCreatedAt(createdAt); err != nil {
			return err
		}
		l.owner = owner
		l.createdAt = createdAt
		return nil
	}
	if err != nil {
		return err
	}
	if storedOwner != owner {
		log.Warn("configured owner differs from stored owner, stored wins", "stored", storedOwner, "configured", owner)
	}
	l.owner = storedOwner
	l.createdAt, err = l.store.LoadCreatedAt()
	return err
}

func (l *Ledger) Run() {
	go l.runAPI(l.port)
	l.runJobs()
}

func (l *Ledger) Close() {
	l.scheduler.Stop()
	if l.kwriter != nil {
		l.kwriter.Close()
	}
	l.wdb.Close()
	if err := l.store.Close(); err != nil {
		log.Error("store close", "err", err)
	}
	log.Info("rentledger closed")
}

// Now returns a monotonically non-decreasing timestamp; a wall clock step
// backwards never reorders the ledger.
func (l *Ledger) Now() int64 {
	l.tsMu.Lock()
	defer l.tsMu.Unlock()
	t := l.clock()
	if t < l.lastTs {
		t = l.lastTs
	}
	l.lastTs = t
	return t
}

func (l *Ledger) About() string {
	return aboutText
}

func (l *Ledger) CreatedDate() int64 {
	return l.createdAt
}

func (l *Ledger) Owner(caller string) (string, error) {
	if err := l.isAdmin(caller); err != nil {
		return "", err
	}
	return l.owner, nil
}

func (l *Ledger) Balance(caller string) (decimal.Decimal, error) {
	if err := l.isAdmin(caller); err != nil {
		return decimal.Zero, err
	}
	return l.custodian.BalanceOf(), nil
}

// Withdraw drains the full custodial balance to the admin identity.
func (l *Ledger) Withdraw(caller string) (decimal.Decimal, error) {
	if err := l.isAdmin(caller); err != nil {
		return decimal.Zero, err
	}
	l.locker.Lock()
	defer l.locker.Unlock()

	bal := l.custodian.BalanceOf()
	if bal.IsZero() {
		return decimal.Zero, nil
	}
	if err := l.custodian.Transfer(l.owner, bal); err != nil {
		return decimal.Zero, err
	}
	log.Info("withdraw", "to", l.owner, "amount", bal.String())
	return bal, nil
}
