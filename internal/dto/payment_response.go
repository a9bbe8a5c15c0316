package dto

import (
	"encoding/json"
	"time"
)

type PaymentResponse struct {
	Success       bool   `json:"success"`
	PaymentURL    string `json:"paymentUrl"`
	NormalURL     string `json:"normalUrl"`
	TransactionID string `json:"transactionId"`
	PgCno         string `json:"pgCno"`
}

// PaymentRejectedResponse is served with 200 when the gateway declines the trade.
type PaymentRejectedResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type PaymentStatusResponse struct {
	OrderNo           string          `json:"orderNo"`
	ShopTransactionID string          `json:"shopTransactionId"`
	PgCno             *string         `json:"pgCno"`
	GoodsName         string          `json:"goodsName"`
	GoodsDetail       string          `json:"goodsDetail"`
	Currency          string          `json:"currency"`
	TotalAmount       int64           `json:"totalAmount"`
	WalletBrandName   string          `json:"walletBrandName"`
	Status            string          `json:"status"`
	StatusCode        *string         `json:"statusCode"`
	ResultCode        *string         `json:"resultCode"`
	ResultMessage     *string         `json:"resultMessage"`
	ApprovalDate      *string         `json:"approvalDate"`
	PaymentURL        *string         `json:"paymentUrl"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         *time.Time      `json:"updatedAt"`
	AlipayResponse    json.RawMessage `json:"alipayResponse"`
}

type HealthResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
