package dto

const EventPaymentStatusChanged = "payment_status_changed"

type PaymentStatusChanged struct {
	OrderNo           string  `json:"order_no"`
	ShopTransactionID string  `json:"shop_transaction_id"`
	PreviousStatus    string  `json:"previous_status"`
	Status            string  `json:"status"`
	ResultCode        *string `json:"result_code"`
	StatusCode        *string `json:"status_code"`
}
