package service

import (
	"context"

	"github.com/alimikegami/pos-microservices/payment-service/internal/dto"
)

type PaymentService interface {
	// InitiatePayment returns *errs.GatewayRejectedError when the gateway
	// declines the trade. Nothing is persisted in that case.
	InitiatePayment(ctx context.Context, req dto.PaymentRequest) (res dto.PaymentResponse, err error)
	HandleNotification(ctx context.Context, req dto.PaymentNotification) (err error)
	GetPaymentStatus(ctx context.Context, orderNo string) (res dto.PaymentStatusResponse, err error)
}
