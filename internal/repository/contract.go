package repository

import (
	"context"

	"github.com/alimikegami/pos-microservices/payment-service/internal/domain"
)

// PaymentRepository lookups return a zero-value Payment (ID == 0) and a nil
// error when no row matches.
type PaymentRepository interface {
	AddPayment(ctx context.Context, data domain.Payment) (id int64, err error)
	GetPaymentByOrderNo(ctx context.Context, orderNo string) (data domain.Payment, err error)
	GetPaymentByShopTransactionID(ctx context.Context, shopTransactionID string) (data domain.Payment, err error)
	GetPaymentByPgCno(ctx context.Context, pgCno string) (data domain.Payment, err error)
	UpdatePayment(ctx context.Context, data domain.Payment) (err error)
}
