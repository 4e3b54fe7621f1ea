package models

import (
	"net/url"
	"strings"

	dErrors "bazar/pkg/domain-errors"
)

// Result is how a payment ended.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

const (
	SuccessPath = "/payment/success"
	FailurePath = "/payment/failure"
)

// Outcome is what the payment provider reported when it sent the shopper back.
type Outcome struct {
	Result Result
	// OrderID is optional; providers omit it on some failures.
	OrderID string
}

// Succeeded reports whether the payment went through.
func (o Outcome) Succeeded() bool {
	return o.Result == ResultSuccess
}

// ParseOutcome maps a payment return path and its query to an Outcome.
func ParseOutcome(path string, query url.Values) (Outcome, error) {
	orderID := strings.TrimSpace(query.Get("orderId"))
	switch strings.TrimRight(path, "/") {
	case SuccessPath:
		return Outcome{Result: ResultSuccess, OrderID: orderID}, nil
	case FailurePath:
		return Outcome{Result: ResultFailure, OrderID: orderID}, nil
	default:
		return Outcome{}, dErrors.New(dErrors.CodeNotFound, "not a payment return path")
	}
}
