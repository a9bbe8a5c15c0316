package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	"github.com/alimikegami/pos-microservices/payment-service/internal/domain"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/errs"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	createTradePath = "/api/trades/alipay"
	findTradePath   = "/api/trades/alipay/find"
	terminalTypeWeb = "WEB"
	unknownError    = "Unknown error"
)

// Gateway is the easypay Alipay trade API as seen by the service layer.
//
// A result code other than "0000" is returned as *errs.GatewayRejectedError
// together with the parsed result, so callers can still read the raw body.
type Gateway interface {
	CreateTrade(ctx context.Context, req TradeRequest) (*TradeResult, error)
	FindTrade(ctx context.Context, shopTransactionID, pgCno string) (*TradeStatusResult, error)
}

type TradeRequest struct {
	ShopTransactionID string
	ShopOrderNo       string
	GoodsName         string
	GoodsDetail       string
	ReturnURL         string
	NotifyURL         string
	WalletBrandName   string
	Currency          string
	TotalAmount       int64
}

type TradeResult struct {
	ResCd          string
	ResMsg         string
	PgCno          string
	PaymentPageURL string
	NormalURL      string
	Raw            json.RawMessage
}

type TradeStatusResult struct {
	ResCd  string
	ResMsg string
	Fields map[string]interface{}
	Raw    json.RawMessage
}

// TradeStatus extracts the fields merged into a payment during reconciliation.
func (r *TradeStatusResult) TradeStatus() domain.TradeStatus {
	return domain.TradeStatus{
		ResultCode:      r.ResCd,
		ResultMessage:   r.ResMsg,
		StatusCode:      domain.LookupFirst(r.Fields, []string{"statusCd"}),
		ApprovalDate:    domain.LookupFirst(r.Fields, domain.ApprovalDateKeys),
		WalletBrandName: domain.LookupFirst(r.Fields, []string{"walletBrandName"}),
	}
}

type amountInfo struct {
	Currency  string `json:"currency"`
	TotAmount int64  `json:"totAmount"`
}

type createTradeRequest struct {
	MallID            string     `json:"mallId"`
	ShopTransactionID string     `json:"shopTransactionId"`
	ShopOrderNo       string     `json:"shopOrderNo"`
	GoodsName         string     `json:"goodsName"`
	GoodsDetail       string     `json:"goodsDetail"`
	ReturnURL         string     `json:"returnUrl"`
	NotifyURL         string     `json:"notifyUrl"`
	WalletBrandName   string     `json:"walletBrandName"`
	TerminalType      string     `json:"terminalType"`
	AmountInfo        amountInfo `json:"amountInfo"`
}

type createTradeResponse struct {
	ResCd          string `json:"resCd"`
	ResMsg         string `json:"resMsg"`
	PgCno          string `json:"pgCno"`
	PaymentPageURL string `json:"paymentPageUrl"`
	NormalURL      string `json:"normalUrl"`
}

type findTradeRequest struct {
	MallID            string `json:"mallId"`
	ShopTransactionID string `json:"shopTransactionId"`
	PgCno             string `json:"pgCno"`
}

type EasypayClient struct {
	baseURL    string
	mallID     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
}

// CreateEasypayClient wires the client from config. cb may be nil, in which
// case every failure goes straight back to the caller.
func CreateEasypayClient(config *config.Config, cb *gobreaker.CircuitBreaker[[]byte]) *EasypayClient {
	return &EasypayClient{
		baseURL:    config.EasypayConfig.APIHost,
		mallID:     config.EasypayConfig.MallID,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cb:         cb,
	}
}

func (c *EasypayClient) CreateTrade(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	payload := createTradeRequest{
		MallID:            c.mallID,
		ShopTransactionID: req.ShopTransactionID,
		ShopOrderNo:       req.ShopOrderNo,
		GoodsName:         req.GoodsName,
		GoodsDetail:       req.GoodsDetail,
		ReturnURL:         req.ReturnURL,
		NotifyURL:         req.NotifyURL,
		WalletBrandName:   req.WalletBrandName,
		TerminalType:      terminalTypeWeb,
		AmountInfo: amountInfo{
			Currency:  req.Currency,
			TotAmount: req.TotalAmount,
		},
	}

	body, err := c.post(ctx, "CreateTrade", createTradePath, payload)
	if err != nil {
		return nil, err
	}

	result := &TradeResult{Raw: nullableRaw(body)}
	if isEmptyBody(body) {
		return result, &errs.GatewayRejectedError{Message: unknownError}
	}

	var resp createTradeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrGatewayMalformedResponse, err)
	}

	result.ResCd = resp.ResCd
	result.ResMsg = resp.ResMsg
	result.PgCno = resp.PgCno
	result.PaymentPageURL = resp.PaymentPageURL
	result.NormalURL = resp.NormalURL

	if resp.ResCd != domain.ResultCodeSuccess {
		return result, &errs.GatewayRejectedError{ResultCode: resp.ResCd, Message: resp.ResMsg}
	}

	return result, nil
}

func (c *EasypayClient) FindTrade(ctx context.Context, shopTransactionID, pgCno string) (*TradeStatusResult, error) {
	payload := findTradeRequest{
		MallID:            c.mallID,
		ShopTransactionID: shopTransactionID,
		PgCno:             pgCno,
	}

	body, err := c.post(ctx, "FindTrade", findTradePath, payload)
	if err != nil {
		return nil, err
	}

	result := &TradeStatusResult{Raw: nullableRaw(body)}
	if isEmptyBody(body) {
		return result, &errs.GatewayRejectedError{Message: unknownError}
	}

	// decoded generically: the find answer carries loosely spelled keys
	if err := json.Unmarshal(body, &result.Fields); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrGatewayMalformedResponse, err)
	}

	if v := domain.LookupFirst(result.Fields, []string{"resCd"}); v != nil {
		result.ResCd = *v
	}
	if v := domain.LookupFirst(result.Fields, []string{"resMsg"}); v != nil {
		result.ResMsg = *v
	}

	if result.ResCd != domain.ResultCodeSuccess {
		return result, &errs.GatewayRejectedError{ResultCode: result.ResCd, Message: result.ResMsg}
	}

	return result, nil
}

func (c *EasypayClient) post(ctx context.Context, component, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling %s request: %w", component, err)
	}

	log.Ctx(ctx).Info().Str("component", component).RawJSON("request", reqBody).Msg("calling easypay")

	send := func() ([]byte, error) {
		statusCode, body, err := httpclient.SendRequest(ctx, c.httpClient, httpclient.HttpRequest{
			URL:    c.baseURL + path,
			Method: http.MethodPost,
			Body:   reqBody,
			Headers: map[string]string{
				"Content-Type": "application/json",
				"charset":      "UTF-8",
			},
		})
		if err != nil {
			return nil, err
		}
		if statusCode < 200 || statusCode > 299 {
			return nil, fmt.Errorf("easypay returned HTTP %d: %s", statusCode, string(body))
		}
		return body, nil
	}

	var body []byte
	if c.cb != nil {
		body, err = c.cb.Execute(send)
	} else {
		body, err = send()
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return nil, fmt.Errorf("%w: %v", errs.ErrGatewayUnreachable, err)
	}

	log.Ctx(ctx).Info().Str("component", component).Str("response", string(body)).Msg("easypay responded")

	return bytes.TrimSpace(body), nil
}

func isEmptyBody(body []byte) bool {
	return len(body) == 0 || string(body) == "null"
}

func nullableRaw(body []byte) json.RawMessage {
	if isEmptyBody(body) {
		return json.RawMessage("null")
	}
	return json.RawMessage(body)
}
