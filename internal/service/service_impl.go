package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	"github.com/alimikegami/pos-microservices/payment-service/internal/domain"
	"github.com/alimikegami/pos-microservices/payment-service/internal/dto"
	"github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/pos-microservices/payment-service/internal/repository"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const transactionIDLength = 10

type PaymentServiceImpl struct {
	repository repository.PaymentRepository
	gateway    paymentgateway.Gateway
	publisher  kafka.EventPublisher
	config     *config.Config

	now              func() time.Time
	newTransactionID func() string
}

func CreatePaymentService(repository repository.PaymentRepository, gateway paymentgateway.Gateway, publisher kafka.EventPublisher, config *config.Config) PaymentService {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}

	return &PaymentServiceImpl{
		repository:       repository,
		gateway:          gateway,
		publisher:        publisher,
		config:           config,
		now:              time.Now,
		newTransactionID: generateTransactionID,
	}
}

func generateTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:transactionIDLength]
}

func (s *PaymentServiceImpl) InitiatePayment(ctx context.Context, req dto.PaymentRequest) (res dto.PaymentResponse, err error) {
	transactionID := s.newTransactionID()

	walletBrandName := s.config.EasypayConfig.DefaultWalletBrandName
	if req.WalletBrandName != nil {
		walletBrandName = *req.WalletBrandName
	}

	trade, err := s.gateway.CreateTrade(ctx, paymentgateway.TradeRequest{
		ShopTransactionID: transactionID,
		ShopOrderNo:       req.OrderNo,
		GoodsName:         req.GoodsName,
		GoodsDetail:       req.GoodsDetail,
		ReturnURL:         returnURLWithOrderNo(req.ReturnURL, req.OrderNo),
		NotifyURL:         req.NotifyURL,
		WalletBrandName:   walletBrandName,
		Currency:          req.Currency,
		TotalAmount:       req.TotalAmount,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "InitiatePayment").Str("order_no", req.OrderNo).Msg("")
		return
	}

	payment := domain.NewPendingPayment(domain.PendingPayment{
		OrderNo:           req.OrderNo,
		ShopTransactionID: transactionID,
		PgCno:             trade.PgCno,
		GoodsName:         req.GoodsName,
		GoodsDetail:       req.GoodsDetail,
		Currency:          req.Currency,
		TotalAmount:       req.TotalAmount,
		PaymentURL:        trade.PaymentPageURL,
		WalletBrandName:   walletBrandName,
	}, s.now())

	if _, err = s.repository.AddPayment(ctx, payment); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "InitiatePayment").Str("order_no", req.OrderNo).Msg("")
		return
	}

	log.Ctx(ctx).Info().Str("order_no", req.OrderNo).Str("shop_transaction_id", transactionID).Msg("payment record saved")

	res = dto.PaymentResponse{
		Success:       true,
		PaymentURL:    trade.PaymentPageURL,
		NormalURL:     trade.NormalURL,
		TransactionID: transactionID,
		PgCno:         trade.PgCno,
	}

	return
}

// returnURLWithOrderNo lets the merchant page poll the status endpoint after
// the redirect. The order number is appended verbatim.
func returnURLWithOrderNo(returnURL, orderNo string) string {
	return returnURL + "?orderNo=" + orderNo
}

func (s *PaymentServiceImpl) HandleNotification(ctx context.Context, req dto.PaymentNotification) (err error) {
	var payment domain.Payment
	switch {
	case req.ShopTransactionID != "":
		payment, err = s.repository.GetPaymentByShopTransactionID(ctx, req.ShopTransactionID)
	case req.PgCno != "":
		payment, err = s.repository.GetPaymentByPgCno(ctx, req.PgCno)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleNotification").Msg("")
		return
	}

	if payment.ID == 0 {
		log.Ctx(ctx).Warn().Str("shop_transaction_id", req.ShopTransactionID).Str("pg_cno", req.PgCno).Msg("notification for unknown payment ignored")
		return nil
	}

	previous := payment.Status
	payment.ApplyNotification(req.ResCd, req.ResMsg, s.now())

	if err = s.repository.UpdatePayment(ctx, payment); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleNotification").Msg("")
		return
	}

	log.Ctx(ctx).Info().Str("shop_transaction_id", payment.ShopTransactionID).Str("status", string(payment.Status)).Msg("payment status updated")

	s.publishStatusChange(ctx, previous, payment)

	return nil
}

func (s *PaymentServiceImpl) GetPaymentStatus(ctx context.Context, orderNo string) (res dto.PaymentStatusResponse, err error) {
	payment, err := s.repository.GetPaymentByOrderNo(ctx, orderNo)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPaymentStatus").Msg("")
		return
	}

	if payment.ID == 0 {
		err = fmt.Errorf("%w for order: %s", errs.ErrPaymentNotFound, orderNo)
		return
	}

	pgCno := ""
	if payment.PgCno != nil {
		pgCno = *payment.PgCno
	}

	trade, err := s.gateway.FindTrade(ctx, payment.ShopTransactionID, pgCno)
	if err != nil {
		var rejected *errs.GatewayRejectedError
		if !errors.As(err, &rejected) || trade == nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "GetPaymentStatus").Msg("")
			return
		}

		// the stored record is served unchanged next to the gateway answer
		log.Ctx(ctx).Warn().Err(err).Str("order_no", orderNo).Msg("trade lookup rejected, skipping reconciliation")
		return toPaymentStatusResponse(payment, trade.Raw), nil
	}

	previous := payment.Status
	payment.Reconcile(trade.TradeStatus(), s.now())

	if err = s.repository.UpdatePayment(ctx, payment); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPaymentStatus").Msg("")
		return
	}

	log.Ctx(ctx).Info().Str("order_no", orderNo).Str("status", string(payment.Status)).Msg("payment status reconciled")

	s.publishStatusChange(ctx, previous, payment)

	return toPaymentStatusResponse(payment, trade.Raw), nil
}

// publishStatusChange never fails the request: a broker error is only logged.
func (s *PaymentServiceImpl) publishStatusChange(ctx context.Context, previous domain.PaymentStatus, payment domain.Payment) {
	if previous == payment.Status {
		return
	}

	err := s.publisher.Publish(ctx, payment.OrderNo, dto.EventPaymentStatusChanged, dto.PaymentStatusChanged{
		OrderNo:           payment.OrderNo,
		ShopTransactionID: payment.ShopTransactionID,
		PreviousStatus:    string(previous),
		Status:            string(payment.Status),
		ResultCode:        payment.ResultCode,
		StatusCode:        payment.StatusCode,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publishStatusChange").Str("order_no", payment.OrderNo).Msg("")
	}
}

func toPaymentStatusResponse(payment domain.Payment, raw json.RawMessage) dto.PaymentStatusResponse {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	return dto.PaymentStatusResponse{
		OrderNo:           payment.OrderNo,
		ShopTransactionID: payment.ShopTransactionID,
		PgCno:             payment.PgCno,
		GoodsName:         payment.GoodsName,
		GoodsDetail:       payment.GoodsDetail,
		Currency:          payment.Currency,
		TotalAmount:       payment.TotalAmount,
		WalletBrandName:   payment.WalletBrandName,
		Status:            string(payment.Status),
		StatusCode:        payment.StatusCode,
		ResultCode:        payment.ResultCode,
		ResultMessage:     payment.ResultMessage,
		ApprovalDate:      payment.ApprovalDate,
		PaymentURL:        payment.PaymentURL,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
		AlipayResponse:    raw,
	}
}
