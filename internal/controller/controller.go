package controller

import (
	"errors"
	"time"

	"github.com/alimikegami/pos-microservices/payment-service/internal/dto"
	"github.com/alimikegami/pos-microservices/payment-service/internal/service"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/errs"
	"github.com/alimikegami/pos-microservices/payment-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	titlePaymentProcessingFailed = "Payment processing failed"
	titlePaymentNotFound         = "Payment not found"
	titleFetchStatusFailed       = "Failed to fetch payment status"
)

type Controller struct {
	service service.PaymentService
}

func CreatePaymentController(e *echo.Group, service service.PaymentService) {
	c := Controller{
		service: service,
	}

	e.POST("/alipay", c.InitiatePayment)
	e.POST("/notify", c.HandleNotification)
	e.GET("/status/:orderNo", c.GetPaymentStatus)
	e.GET("/test", c.Health)
}

func (c *Controller) InitiatePayment(e echo.Context) error {
	payload := dto.PaymentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "InitiatePayment").Msg("")
		return response.WriteErrorResponse(e, titlePaymentProcessingFailed, err)
	}

	resp, err := c.service.InitiatePayment(e.Request().Context(), payload)
	if err != nil {
		var rejected *errs.GatewayRejectedError
		if errors.As(err, &rejected) {
			return response.WriteSuccessResponse(e, dto.PaymentRejectedResponse{
				Success: false,
				Error:   rejected.Message,
			})
		}

		return response.WriteErrorResponse(e, titlePaymentProcessingFailed, err)
	}

	return response.WriteSuccessResponse(e, resp)
}

func (c *Controller) HandleNotification(e echo.Context) error {
	payload := dto.PaymentNotification{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "HandleNotification").Msg("")
		return response.WriteGatewayAck(e, err)
	}

	log.Ctx(e.Request().Context()).Info().
		Str("shop_transaction_id", payload.ShopTransactionID).
		Str("res_cd", payload.ResCd).
		Msg("payment notification received")

	err = c.service.HandleNotification(e.Request().Context(), payload)

	return response.WriteGatewayAck(e, err)
}

func (c *Controller) GetPaymentStatus(e echo.Context) error {
	orderNo := e.Param("orderNo")

	resp, err := c.service.GetPaymentStatus(e.Request().Context(), orderNo)
	if err != nil {
		if errors.Is(err, errs.ErrPaymentNotFound) {
			return response.WriteErrorResponse(e, titlePaymentNotFound, err)
		}

		return response.WriteErrorResponse(e, titleFetchStatusFailed, err)
	}

	return response.WriteSuccessResponse(e, resp)
}

func (c *Controller) Health(e echo.Context) error {
	return response.WriteSuccessResponse(e, dto.HealthResponse{
		Message:   "API is working",
		Timestamp: time.Now().UnixMilli(),
	})
}
