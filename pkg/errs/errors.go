package errs

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusBadGateway     = http.StatusBadGateway
)

var (
	ErrInternalServer           = errors.New("Internal server error")
	ErrClient                   = errors.New("Bad request")
	ErrPaymentNotFound          = errors.New("Payment not found")
	ErrPersistence              = errors.New("Failed to persist payment record")
	ErrGatewayRejected          = errors.New("Payment gateway rejected the request")
	ErrGatewayUnreachable       = errors.New("Payment gateway is unreachable")
	ErrGatewayMalformedResponse = errors.New("Payment gateway returned a malformed response")
)

// Gateway failures are served as 500.
var errorMap = map[error]int{
	ErrInternalServer:           ErrStatusInternalServer,
	ErrClient:                   ErrStatusClient,
	ErrPaymentNotFound:          ErrStatusNotFound,
	ErrPersistence:              ErrStatusInternalServer,
	ErrGatewayRejected:          ErrStatusInternalServer,
	ErrGatewayUnreachable:       ErrStatusInternalServer,
	ErrGatewayMalformedResponse: ErrStatusInternalServer,
}

func GetErrorStatusCode(err error) int {
	for target, status := range errorMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return errorMap[ErrInternalServer]
}

// GatewayRejectedError is returned when the gateway answers with a result
// code other than the success sentinel.
type GatewayRejectedError struct {
	ResultCode string
	Message    string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("gateway rejected request (resCd=%s): %s", e.ResultCode, e.Message)
}

func (e *GatewayRejectedError) Unwrap() error {
	return ErrGatewayRejected
}
