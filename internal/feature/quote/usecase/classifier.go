package usecase

import (
	"context"
	"errors"
	"net"
	"net/http"

	"stock_watchlist/internal/feature/quote/domain/entity"
)

// Outcome is the classification of a single provider call.
type Outcome int

const (
	// OutcomeSuccess means the call returned a quote with data.
	OutcomeSuccess Outcome = iota
	// OutcomeRetryable means the failure is expected to clear shortly (502/503/504, timeout).
	OutcomeRetryable
	// OutcomePermanent means retrying immediately will not help (4xx, bad payload, unknown symbol).
	OutcomePermanent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// httpStatusError is satisfied by provider errors that carry an HTTP status code.
type httpStatusError interface {
	error
	HTTPStatus() int
}

// Classify decides how the retry loop should treat a provider result.
// An all-zero quote is a permanent miss, not an error: the upstream answers
// unknown symbols that way.
func Classify(q entity.Quote, err error) Outcome {
	if err != nil {
		if isTransient(err) {
			return OutcomeRetryable
		}
		return OutcomePermanent
	}
	if !q.HasData() {
		return OutcomePermanent
	}
	return OutcomeSuccess
}

func isTransient(err error) bool {
	var se httpStatusError
	if errors.As(err, &se) {
		switch se.HTTPStatus() {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
