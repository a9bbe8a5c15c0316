package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// ResultCodeSuccess is the gateway result-code sentinel for an accepted call.
const ResultCodeSuccess = "0000"

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

type Payment struct {
	ID                int64         `db:"id"`
	OrderNo           string        `db:"order_no"`
	ShopTransactionID string        `db:"shop_transaction_id"`
	PgCno             *string       `db:"pg_cno"`
	GoodsName         string        `db:"goods_name"`
	GoodsDetail       string        `db:"goods_detail"`
	Currency          string        `db:"currency"`
	TotalAmount       int64         `db:"total_amount"`
	PaymentURL        *string       `db:"payment_url"`
	WalletBrandName   string        `db:"wallet_brand_name"`
	Status            PaymentStatus `db:"status"`
	StatusCode        *string       `db:"status_code"`
	ResultCode        *string       `db:"result_code"`
	ResultMessage     *string       `db:"result_message"`
	ApprovalDate      *string       `db:"approval_date"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         *time.Time    `db:"updated_at"`
}

// PendingPayment carries what is known about a trade right after the gateway
// accepted it.
type PendingPayment struct {
	OrderNo           string
	ShopTransactionID string
	PgCno             string
	GoodsName         string
	GoodsDetail       string
	Currency          string
	TotalAmount       int64
	PaymentURL        string
	WalletBrandName   string
}

// NewPendingPayment builds the record persisted after the gateway accepted a trade.
func NewPendingPayment(data PendingPayment, now time.Time) Payment {
	return Payment{
		OrderNo:           data.OrderNo,
		ShopTransactionID: data.ShopTransactionID,
		PgCno:             nullable(data.PgCno),
		GoodsName:         data.GoodsName,
		GoodsDetail:       data.GoodsDetail,
		Currency:          data.Currency,
		TotalAmount:       data.TotalAmount,
		PaymentURL:        nullable(data.PaymentURL),
		WalletBrandName:   data.WalletBrandName,
		Status:            PaymentStatusPending,
		CreatedAt:         now,
	}
}

// ApplyNotification records a gateway push result. The status becomes
// SUCCESS only for the success sentinel, FAILED otherwise.
func (p *Payment) ApplyNotification(resultCode, resultMessage string, now time.Time) {
	p.ResultCode = nullable(resultCode)
	p.ResultMessage = nullable(resultMessage)
	if resultCode == ResultCodeSuccess {
		p.Status = PaymentStatusSuccess
	} else {
		p.Status = PaymentStatusFailed
	}
	p.UpdatedAt = &now
}

// TradeStatus is the subset of a successful find-trade answer merged into the record.
type TradeStatus struct {
	ResultCode      string
	ResultMessage   string
	StatusCode      *string
	ApprovalDate    *string
	WalletBrandName *string
}

// Reconcile merges the latest gateway view into the record.
// A mapped PENDING never replaces a terminal status.
func (p *Payment) Reconcile(ts TradeStatus, now time.Time) {
	p.ResultCode = nullable(ts.ResultCode)
	p.ResultMessage = nullable(ts.ResultMessage)

	if ts.StatusCode != nil {
		code := NormalizeStatusCode(*ts.StatusCode)
		next := MapGatewayStatus(code)
		if !(next == PaymentStatusPending && p.Status.IsTerminal()) {
			p.Status = next
		}
		p.StatusCode = &code
	}

	if ts.ApprovalDate != nil {
		p.ApprovalDate = ts.ApprovalDate
	}

	if ts.WalletBrandName != nil {
		p.WalletBrandName = *ts.WalletBrandName
	}

	p.UpdatedAt = &now
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
