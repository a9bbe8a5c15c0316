package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alimikegami/pos-microservices/payment-service/internal/domain"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const paymentColumns = "id, order_no, shop_transaction_id, pg_cno, goods_name, goods_detail, currency, total_amount, payment_url, wallet_brand_name, status, status_code, result_code, result_message, approval_date, created_at, updated_at"

type PaymentRepositoryImpl struct {
	db *sqlx.DB
}

func CreatePaymentRepository(db *sqlx.DB) PaymentRepository {
	return &PaymentRepositoryImpl{
		db: db,
	}
}

func (r *PaymentRepositoryImpl) AddPayment(ctx context.Context, data domain.Payment) (id int64, err error) {
	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO payments(order_no, shop_transaction_id, pg_cno, goods_name, goods_detail, currency, total_amount, payment_url, wallet_brand_name, status, created_at) VALUES (:order_no, :shop_transaction_id, :pg_cno, :goods_name, :goods_detail, :currency, :total_amount, :payment_url, :wallet_brand_name, :status, :created_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddPayment").Msg("")
		return 0, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddPayment").Msg("")
		return 0, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return data.ID, nil
}

func (r *PaymentRepositoryImpl) GetPaymentByOrderNo(ctx context.Context, orderNo string) (data domain.Payment, err error) {
	return r.getPaymentBy(ctx, "GetPaymentByOrderNo", "order_no", orderNo)
}

func (r *PaymentRepositoryImpl) GetPaymentByShopTransactionID(ctx context.Context, shopTransactionID string) (data domain.Payment, err error) {
	return r.getPaymentBy(ctx, "GetPaymentByShopTransactionID", "shop_transaction_id", shopTransactionID)
}

func (r *PaymentRepositoryImpl) GetPaymentByPgCno(ctx context.Context, pgCno string) (data domain.Payment, err error) {
	return r.getPaymentBy(ctx, "GetPaymentByPgCno", "pg_cno", pgCno)
}

// getPaymentBy is only called with column names from this file.
func (r *PaymentRepositoryImpl) getPaymentBy(ctx context.Context, component, column, value string) (data domain.Payment, err error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE %s = $1 ORDER BY id LIMIT 1", paymentColumns, column)
	row := r.db.QueryRowxContext(ctx, query, value)
	err = row.StructScan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Payment{}, nil
		}
		log.Error().Err(err).Str("component", component).Msg("")
		return data, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return
}

func (r *PaymentRepositoryImpl) UpdatePayment(ctx context.Context, data domain.Payment) (err error) {
	_, err = r.db.NamedExecContext(ctx, "UPDATE payments SET pg_cno=:pg_cno, wallet_brand_name=:wallet_brand_name, status=:status, status_code=:status_code, result_code=:result_code, result_message=:result_message, approval_date=:approval_date, updated_at=:updated_at WHERE id=:id", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdatePayment").Msg("")
		return fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return nil
}
