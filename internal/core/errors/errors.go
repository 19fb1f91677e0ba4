package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeClassification     ErrorCode = "CLASSIFICATION_ERROR"
	CodeUnsupportedType    ErrorCode = "UNSUPPORTED_TYPE"
	CodeMissingDeclaration ErrorCode = "MISSING_DECLARATION"
	CodeUnitNotFound       ErrorCode = "UNIT_NOT_FOUND"
	CodeNotSupported       ErrorCode = "NOT_SUPPORTED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// DomainError is the fatal error value for one extraction call. It carries
// enough context (symbol, printable type, flags, location) to reproduce the
// failure, so a caller can decide to skip a unit versus abort a batch.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath   = "path"
	CtxSymbol = "symbol"
	CtxType   = "type"
	CtxFlags  = "flags"
	CtxLoc    = "loc"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) *DomainError {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

// CodeOf extracts the domain code, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
