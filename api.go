package rentledger

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
)

func (l *Ledger) runAPI(port string) {
	r := l.engine
	r.Use(CORSMiddleware())
	r.Use(RequestIdMiddleware())
	r.Use(LimiterMiddleware(600, "M", nil))
	l.registerRoutes(r)

	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (l *Ledger) registerRoutes(r *gin.Engine) {
	r.GET("/info", l.getInfo)
	r.GET("/messages", l.listMessages)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/")
	v1.Use(l.IdentityMiddleware())
	{
		v1.POST("/record", l.createRecord)
		v1.POST("/record/:id/status", l.setStatus)
		v1.GET("/record/:id", l.getRecord)
		v1.GET("/record/:id/payments", l.getHistory)
		v1.POST("/record/:id/payment/notify", l.notifyPayment)
		v1.POST("/record/:id/payment/value", l.valuePayment)

		v1.GET("/admin/owner", l.getOwner)
		v1.GET("/admin/record/:id", l.getRecordAdmin)
		v1.GET("/admin/records", l.listRecords)
		v1.GET("/admin/records/count", l.recordCount)
		v1.GET("/admin/records/search", l.searchRecords)
		v1.GET("/admin/balance", l.getBalance)
		v1.POST("/admin/withdraw", l.withdraw)
		v1.GET("/admin/statistics", l.getStatistics)

		v1.POST("/admin/message", l.postMessage)
	}
}

func (l *Ledger) getInfo(c *gin.Context) {
	c.JSON(http.StatusOK, schema.RespInfo{
		About:       l.About(),
		Version:     version,
		CreatedDate: l.CreatedDate(),
	})
}

func (l *Ledger) getOwner(c *gin.Context) {
	owner, err := l.Owner(caller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespOwner{Owner: owner})
}

func (l *Ledger) createRecord(c *gin.Context) {
	req := schema.CreateRecordReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.RentInstanceId == "" {
		errorResponse(c, "null_rent_instance_id")
		return
	}
	if err := l.CreateRecord(req, caller(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (l *Ledger) setStatus(c *gin.Context) {
	req := schema.SetStatusReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := l.SetStatus(c.Param("id"), req.StatusCode, caller(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (l *Ledger) getRecord(c *gin.Context) {
	resp, err := l.GetRecord(c.Param("id"), caller(c), paymentValue(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (l *Ledger) getRecordAdmin(c *gin.Context) {
	resp, err := l.GetRecordAdmin(c.Param("id"), caller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (l *Ledger) listRecords(c *gin.Context) {
	lites, err := l.ListAllLite(caller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lites)
}

func (l *Ledger) recordCount(c *gin.Context) {
	total, err := l.Size(caller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespCount{Total: total})
}

func (l *Ledger) searchRecords(c *gin.Context) {
	if err := l.isAdmin(caller(c)); err != nil {
		abortWithError(c, err)
		return
	}
	if l.wdb == nil || l.wdb.Db == nil {
		internalErrorResponse(c, schema.ErrNotImplement.Error())
		return
	}
	res, err := l.wdb.GetRecordsByTenant(c.Query("tenantId"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

func (l *Ledger) notifyPayment(c *gin.Context) {
	req := schema.NotifyPaymentReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := l.AppendNotification(c.Param("id"), req.Amount, caller(c), l.Now()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (l *Ledger) valuePayment(c *gin.Context) {
	req := schema.ValuePaymentReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := l.AppendValuePayment(c.Param("id"), req.Value, caller(c), l.Now()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (l *Ledger) getHistory(c *gin.Context) {
	payments, err := l.History(c.Param("id"), caller(c), paymentValue(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (l *Ledger) postMessage(c *gin.Context) {
	req := schema.MessageReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := l.AppendMessage(req.Text, caller(c), l.Now()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (l *Ledger) listMessages(c *gin.Context) {
	msgs, err := l.Messages()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (l *Ledger) getBalance(c *gin.Context) {
	bal, err := l.Balance(caller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespBalance{Balance: bal})
}

func (l *Ledger) withdraw(c *gin.Context) {
	amount, err := l.Withdraw(caller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespWithdraw{Amount: amount, To: l.owner})
}

func (l *Ledger) getStatistics(c *gin.Context) {
	if err := l.isAdmin(caller(c)); err != nil {
		abortWithError(c, err)
		return
	}
	if l.wdb == nil || l.wdb.Db == nil {
		internalErrorResponse(c, schema.ErrNotImplement.Error())
		return
	}
	stats, err := l.wdb.GetDailyStatistics(30)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

func caller(c *gin.Context) string {
	return c.GetString(ctxCallerKey)
}

// paymentValue reads the value attached to a payable read, zero when absent
// so the positive-value guard rejects the call.
func paymentValue(c *gin.Context) decimal.Decimal {
	raw := c.GetHeader(schema.HeaderPaymentValue)
	if raw == "" {
		return decimal.Zero
	}
	val, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return val
}

func abortWithError(c *gin.Context, err error) {
	switch err {
	case schema.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, schema.RespErr{Err: err.Error()})
	case schema.ErrRecordExist:
		c.JSON(http.StatusConflict, schema.RespErr{Err: err.Error()})
	case schema.ErrNonPositiveValue, schema.ErrInsufficientBalance:
		c.JSON(http.StatusBadRequest, schema.RespErr{Err: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, schema.RespErr{Err: err.Error()})
	}
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
