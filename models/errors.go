package models

import "fmt"

type BrokerErrorKind int

const (
	ErrNetwork BrokerErrorKind = iota
	ErrAuth
	ErrRateLimit
	ErrInvalidSymbol
	ErrParse
	ErrUnknown
)

func (k BrokerErrorKind) String() string {
	switch k {
	case ErrNetwork:
		return "network"
	case ErrAuth:
		return "auth"
	case ErrRateLimit:
		return "rate_limit"
	case ErrInvalidSymbol:
		return "invalid_symbol"
	case ErrParse:
		return "parse"
	default:
		return "unknown"
	}
}

// BrokerError classifies a brokerage call failure. All kinds are
// non-fatal, callers skip the symbol for the cycle and move on.
type BrokerError struct {
	Kind       BrokerErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *BrokerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

func NewBrokerError(kind BrokerErrorKind, op string, status int, err error) *BrokerError {
	return &BrokerError{Kind: kind, Op: op, StatusCode: status, Err: err}
}

// ClassifyStatus maps an HTTP status to the error taxonomy. 404 means an
// unknown symbol only on historical-data endpoints, hence the flag.
func ClassifyStatus(status int, barsEndpoint bool) BrokerErrorKind {
	switch {
	case status == 401:
		return ErrAuth
	case status == 429:
		return ErrRateLimit
	case status == 404 && barsEndpoint:
		return ErrInvalidSymbol
	default:
		return ErrUnknown
	}
}
