package dto

// PaymentNotification is the easypay push payload. Only the fields the
// service reads are declared; the rest of the body is ignored.
type PaymentNotification struct {
	ShopTransactionID string `json:"shopTransactionId"`
	PgCno             string `json:"pgCno"`
	ResCd             string `json:"resCd"`
	ResMsg            string `json:"resMsg"`
}
