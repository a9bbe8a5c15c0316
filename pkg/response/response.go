package response

import (
	"net/http"

	"github.com/alimikegami/pos-microservices/payment-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GatewayAck is the acknowledgement body expected by the gateway on notify.
type GatewayAck struct {
	ResCd  string `json:"resCd"`
	ResMsg string `json:"resMsg"`
}

var (
	AckOK    = GatewayAck{ResCd: "0000", ResMsg: "OK"}
	AckError = GatewayAck{ResCd: "9999", ResMsg: "Error"}
)

func WriteSuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// WriteErrorResponse serves {error, message}. The status code comes from the
// errs mapping, the underlying message is exposed as is.
func WriteErrorResponse(c echo.Context, title string, err error) error {
	resp := ErrorResponse{
		Error:   title,
		Message: err.Error(),
	}

	return c.JSON(errs.GetErrorStatusCode(err), resp)
}

func WriteGatewayAck(c echo.Context, err error) error {
	if err != nil {
		return c.JSON(http.StatusInternalServerError, AckError)
	}

	return c.JSON(http.StatusOK, AckOK)
}
