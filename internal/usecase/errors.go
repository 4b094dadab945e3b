package usecase

import "errors"

// Expected control-flow signals of the dispatch engine. None of these
// abort a batch run; the scheduler counts them.
var (
	ErrNoTemplate    = errors.New("no template available for this stage")
	ErrConfigMissing = errors.New("no email configuration found for this user")
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError marks infrastructure failures (store, transport, queue).
type TechnicalError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// Error codes shared with the HTTP layer.
const (
	CodeConfigMissing    = "CONFIG_MISSING"
	CodeTransportFailure = "TRANSPORT_FAILURE"
	CodeStoreFailure     = "STORE_FAILURE"
	CodeValidation       = "VALIDATION_ERROR"
)
