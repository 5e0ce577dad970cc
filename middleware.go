package rentledger

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/go-everpay/account"
	"github.com/everFinance/goether"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentlabs/rentledger/schema"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var (
	ERR_TOO_MANY_REQUESTS = errors.New("err_limit_exceeded")

	// a signed timestamp is accepted this long around server time
	sigFreshness = int64(5 * time.Minute / time.Second)
)

const ctxCallerKey = "caller"

// LimiterMiddleware period: "S"<Second>,"M"<Minute>,"H"<Hour>,"D"<Day>; limit: limit frequency
func LimiterMiddleware(limit int, period string, ipRateWhitelist *map[string]struct{}) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(fmt.Sprintf("%d-%s", limit, period))
	if err != nil {
		panic(err)
	}
	store := memory.NewStore()
	middleware := mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": ERR_TOO_MANY_REQUESTS.Error(),
			})
		}),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.Request.Header.Get("origin") + "," + c.ClientIP()
		}),
		mgin.WithExcludedKey(func(originAndIp string) bool { // origin + "," + ip
			if ipRateWhitelist == nil {
				return false
			}
			mmap := *ipRateWhitelist
			ss := strings.Split(originAndIp, ",")
			for _, s := range ss {
				if _, ok := mmap[s]; ok {
					return true
				}
			}
			return false
		}))

	return middleware
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Caller, X-Timestamp, X-Signature, X-Payment-Value")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func RequestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqId := c.GetHeader("X-Request-Id")
		if reqId == "" {
			reqId = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", reqId)
		c.Next()
	}
}

// IdentityMiddleware resolves the caller identity for every guarded route.
// The identity is an opaque address token normalized by account.IDCheck; with
// sigCheck on, the caller must also personal-sign the X-Timestamp header and
// the recovered address must match.
func (l *Ledger) IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetHeader(schema.HeaderCaller)
		if caller == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, schema.RespErr{Err: schema.ErrInvalidAddress.Error()})
			return
		}
		_, addr, err := account.IDCheck(caller)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, schema.RespErr{Err: schema.ErrInvalidAddress.Error()})
			return
		}

		if l.enableSigCheck {
			if err := verifyCallerSig(addr, c.GetHeader(schema.HeaderTimestamp), c.GetHeader(schema.HeaderSignature), l.clock()); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, schema.RespErr{Err: err.Error()})
				return
			}
		}

		c.Set(ctxCallerKey, addr)
		c.Next()
	}
}

func verifyCallerSig(addr, ts, sig string, nowTs int64) error {
	if ts == "" || sig == "" {
		return schema.ErrInvalidSignature
	}
	signedTs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return schema.ErrInvalidSignature
	}
	if signedTs < nowTs-sigFreshness || signedTs > nowTs+sigFreshness {
		return schema.ErrInvalidSignature
	}
	sigBytes, err := hexutil.Decode(sig)
	if err != nil {
		return schema.ErrInvalidSignature
	}
	_, recovered, err := goether.Ecrecover(accounts.TextHash([]byte(ts)), sigBytes)
	if err != nil {
		return schema.ErrInvalidSignature
	}
	if recovered.Hex() != addr {
		return schema.ErrInvalidSignature
	}
	return nil
}
