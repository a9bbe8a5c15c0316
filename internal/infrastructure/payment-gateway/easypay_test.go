package paymentgateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	circuitbreaker "github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *EasypayClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &config.Config{
		EasypayConfig: config.EasypayConfig{
			APIHost: srv.URL,
			MallID:  "T0001995",
		},
	}

	return CreateEasypayClient(conf, nil)
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestCreateTrade(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trades/alipay", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "UTF-8", r.Header.Get("charset"))

		body := decodeBody(t, r)
		assert.Equal(t, "T0001995", body["mallId"])
		assert.Equal(t, "a1b2c3d4e5", body["shopTransactionId"])
		assert.Equal(t, "ORD-1", body["shopOrderNo"])
		assert.Equal(t, "WEB", body["terminalType"])
		assert.Equal(t, "ALIPAY_CN", body["walletBrandName"])
		assert.Equal(t, map[string]interface{}{"currency": "USD", "totAmount": float64(1000)}, body["amountInfo"])

		w.Write([]byte(`{"resCd":"0000","resMsg":"success","pgCno":"PG123","paymentPageUrl":"https://pay/1","normalUrl":"https://normal/1"}`))
	})

	result, err := client.CreateTrade(context.Background(), TradeRequest{
		ShopTransactionID: "a1b2c3d4e5",
		ShopOrderNo:       "ORD-1",
		GoodsName:         "Tea",
		WalletBrandName:   "ALIPAY_CN",
		Currency:          "USD",
		TotalAmount:       1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "PG123", result.PgCno)
	assert.Equal(t, "https://pay/1", result.PaymentPageURL)
	assert.Equal(t, "https://normal/1", result.NormalURL)
}

func TestCreateTrade_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resCd":"1001","resMsg":"invalid mall"}`))
	})

	result, err := client.CreateTrade(context.Background(), TradeRequest{ShopOrderNo: "ORD-1"})
	require.Error(t, err)

	var rejected *errs.GatewayRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "1001", rejected.ResultCode)
	assert.Equal(t, "invalid mall", rejected.Message)
	require.NotNil(t, result)
	assert.Equal(t, "1001", result.ResCd)
}

func TestCreateTrade_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.CreateTrade(context.Background(), TradeRequest{ShopOrderNo: "ORD-1"})

	var rejected *errs.GatewayRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "Unknown error", rejected.Message)
}

func TestCreateTrade_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.CreateTrade(context.Background(), TradeRequest{ShopOrderNo: "ORD-1"})
	assert.ErrorIs(t, err, errs.ErrGatewayMalformedResponse)
}

func TestCreateTrade_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreateTrade(context.Background(), TradeRequest{ShopOrderNo: "ORD-1"})
	assert.ErrorIs(t, err, errs.ErrGatewayUnreachable)
	assert.Contains(t, err.Error(), "502")
}

func TestFindTrade(t *testing.T) {
	raw := `{"resCd":"0000","resMsg":"success","statusCd":"TS01 ","approval Date":"20240101120000","walletBrandName":"ALIPAY_HK"}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trades/alipay/find", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, "T0001995", body["mallId"])
		assert.Equal(t, "a1b2c3d4e5", body["shopTransactionId"])
		assert.Equal(t, "PG123", body["pgCno"])

		w.Write([]byte(raw))
	})

	result, err := client.FindTrade(context.Background(), "a1b2c3d4e5", "PG123")
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(result.Raw))

	ts := result.TradeStatus()
	assert.Equal(t, "0000", ts.ResultCode)
	require.NotNil(t, ts.StatusCode)
	assert.Equal(t, "TS01 ", *ts.StatusCode)
	require.NotNil(t, ts.ApprovalDate)
	assert.Equal(t, "20240101120000", *ts.ApprovalDate)
	require.NotNil(t, ts.WalletBrandName)
	assert.Equal(t, "ALIPAY_HK", *ts.WalletBrandName)
}

func TestFindTrade_RejectedKeepsRawBody(t *testing.T) {
	raw := `{"resCd":"3001","resMsg":"trade not found"}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	})

	result, err := client.FindTrade(context.Background(), "a1b2c3d4e5", "")
	assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	require.NotNil(t, result)
	assert.JSONEq(t, raw, string(result.Raw))
}

func TestFindTrade_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := CreateEasypayClient(&config.Config{EasypayConfig: config.EasypayConfig{APIHost: srv.URL}}, nil)

	_, err := client.FindTrade(context.Background(), "a1b2c3d4e5", "PG123")
	assert.ErrorIs(t, err, errs.ErrGatewayUnreachable)
}

func TestFindTrade_CircuitBreakerOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	conf := &config.Config{EasypayConfig: config.EasypayConfig{APIHost: srv.URL}}
	client := CreateEasypayClient(conf, circuitbreaker.CreateCircuitBreaker("easypay-test"))

	for i := 0; i < 4; i++ {
		_, err := client.FindTrade(context.Background(), "a1b2c3d4e5", "PG123")
		assert.ErrorIs(t, err, errs.ErrGatewayUnreachable)
	}

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
