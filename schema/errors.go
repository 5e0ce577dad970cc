package schema

import (
	"errors"
)

var (
	ErrNotExist     = errors.New("not_exist_record")
	ErrNotImplement = errors.New("method not implement")

	// guard failures
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNonPositiveValue = errors.New("non_positive_value")
	ErrRecordExist      = errors.New("record_exist")

	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrInvalidAddress      = errors.New("invalid_address")
	ErrInvalidSignature    = errors.New("invalid_signature")
)
