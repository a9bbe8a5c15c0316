package dto

type PaymentRequest struct {
	OrderNo         string  `json:"orderNo"`
	GoodsName       string  `json:"goodsName"`
	GoodsDetail     string  `json:"goodsDetail"`
	ReturnURL       string  `json:"returnUrl"`
	NotifyURL       string  `json:"notifyUrl"`
	Currency        string  `json:"currency"`
	TotalAmount     int64   `json:"totalAmount"`
	WalletBrandName *string `json:"walletBrandName"`
}
