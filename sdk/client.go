package sdk

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/goether"
	"github.com/rentlabs/rentledger/schema"
	"github.com/shopspring/decimal"
	"gopkg.in/h2non/gentleman.v2"
)

// Client talks to a rentledger node. With a signer attached every request
// carries a signed timestamp so nodes running signature checks accept it.
type Client struct {
	SCli   *gentleman.Client
	caller string
	signer *goether.Signer
}

func New(ledgerUrl, caller string) *Client {
	return &Client{
		SCli:   gentleman.New().URL(ledgerUrl),
		caller: caller,
	}
}

func NewWithSigner(ledgerUrl string, signer *goether.Signer) *Client {
	return &Client{
		SCli:   gentleman.New().URL(ledgerUrl),
		caller: signer.Address.Hex(),
		signer: signer,
	}
}

func (c *Client) Info() (info schema.RespInfo, err error) {
	req := c.SCli.Get()
	req.AddPath("/info")
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return info, errors.New(resp.String())
	}
	err = resp.JSON(&info)
	return
}

func (c *Client) CreateRecord(record schema.CreateRecordReq) error {
	req := c.SCli.Post()
	req.AddPath("/record")
	req.JSON(record)
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(resp.String())
	}
	return nil
}

func (c *Client) SetStatus(rentId string, statusCode int) error {
	req := c.SCli.Post()
	req.AddPath(fmt.Sprintf("/record/%s/status", rentId))
	req.JSON(schema.SetStatusReq{StatusCode: statusCode})
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(resp.String())
	}
	return nil
}

// GetRecord payable read, payValue must be positive.
func (c *Client) GetRecord(rentId string, payValue decimal.Decimal) (record schema.RespRecord, err error) {
	req := c.SCli.Get()
	req.AddPath(fmt.Sprintf("/record/%s", rentId))
	req.SetHeader(schema.HeaderPaymentValue, payValue.String())
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return record, errors.New(resp.String())
	}
	err = resp.JSON(&record)
	return
}

func (c *Client) GetRecordAdmin(rentId string) (record schema.RespRecord, err error) {
	req := c.SCli.Get()
	req.AddPath(fmt.Sprintf("/admin/record/%s", rentId))
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return record, errors.New(resp.String())
	}
	err = resp.JSON(&record)
	return
}

func (c *Client) ListRecords() (records []schema.LiteRecord, err error) {
	req := c.SCli.Get()
	req.AddPath("/admin/records")
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return records, errors.New(resp.String())
	}
	err = resp.JSON(&records)
	return
}

func (c *Client) RecordCount() (int, error) {
	req := c.SCli.Get()
	req.AddPath("/admin/records/count")
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return 0, err
	}
	defer resp.Close()
	if !resp.Ok {
		return 0, errors.New(resp.String())
	}
	cnt := schema.RespCount{}
	if err := resp.JSON(&cnt); err != nil {
		return 0, err
	}
	return cnt.Total, nil
}

func (c *Client) NotifyPayment(rentId, amount string) error {
	req := c.SCli.Post()
	req.AddPath(fmt.Sprintf("/record/%s/payment/notify", rentId))
	req.JSON(schema.NotifyPaymentReq{Amount: amount})
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(resp.String())
	}
	return nil
}

func (c *Client) PayValue(rentId string, value decimal.Decimal) error {
	req := c.SCli.Post()
	req.AddPath(fmt.Sprintf("/record/%s/payment/value", rentId))
	req.JSON(schema.ValuePaymentReq{Value: value})
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(resp.String())
	}
	return nil
}

// History payable read, payValue must be positive.
func (c *Client) History(rentId string, payValue decimal.Decimal) (payments []schema.Payment, err error) {
	req := c.SCli.Get()
	req.AddPath(fmt.Sprintf("/record/%s/payments", rentId))
	req.SetHeader(schema.HeaderPaymentValue, payValue.String())
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return payments, errors.New(resp.String())
	}
	err = resp.JSON(&payments)
	return
}

func (c *Client) PostMessage(text string) error {
	req := c.SCli.Post()
	req.AddPath("/admin/message")
	req.JSON(schema.MessageReq{Text: text})
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(resp.String())
	}
	return nil
}

func (c *Client) Messages() (msgs []schema.Message, err error) {
	req := c.SCli.Get()
	req.AddPath("/messages")
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return msgs, errors.New(resp.String())
	}
	err = resp.JSON(&msgs)
	return
}

func (c *Client) Balance() (bal schema.RespBalance, err error) {
	req := c.SCli.Get()
	req.AddPath("/admin/balance")
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return bal, errors.New(resp.String())
	}
	err = resp.JSON(&bal)
	return
}

func (c *Client) Withdraw() (res schema.RespWithdraw, err error) {
	req := c.SCli.Post()
	req.AddPath("/admin/withdraw")
	c.setIdentity(req)
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return res, errors.New(resp.String())
	}
	err = resp.JSON(&res)
	return
}

func (c *Client) setIdentity(req *gentleman.Request) {
	req.SetHeader(schema.HeaderCaller, c.caller)
	if c.signer == nil {
		return
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig, err := c.signer.SignMsg([]byte(ts))
	if err != nil {
		return
	}
	req.SetHeader(schema.HeaderTimestamp, ts)
	req.SetHeader(schema.HeaderSignature, hexutil.Encode(sig))
}
