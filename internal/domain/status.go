package domain

import (
	"strings"
	"unicode"
)

const (
	GatewayStatusApproved = "TS01"
	GatewayStatusWaiting  = "TS00"
)

var gatewayStatusTable = map[string]PaymentStatus{
	GatewayStatusApproved: PaymentStatusSuccess,
	GatewayStatusWaiting:  PaymentStatusPending,
}

// MapGatewayStatus is total: any code missing from the table, including the
// empty string, is classified as FAILED.
func MapGatewayStatus(code string) PaymentStatus {
	if status, ok := gatewayStatusTable[code]; ok {
		return status
	}
	return PaymentStatusFailed
}

// NormalizeStatusCode strips every whitespace rune and upper-cases the code,
// so " ts 01 " becomes "TS01".
func NormalizeStatusCode(code string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code))
}

// ApprovalDateKeys lists the accepted spellings of the approval date field,
// highest priority first.
var ApprovalDateKeys = []string{"approvalDate", "approval Date"}

// LookupFirst returns the first non-null string value found under keys.
func LookupFirst(fields map[string]interface{}, keys []string) *string {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}
