package model

import "errors"

var (
	ErrCaseNotFound      = errors.New("support case not found")
	ErrCaseAlreadyClosed = errors.New("support case is already closed")
	ErrCaseAlreadyOpen   = errors.New("support case is already open")
	ErrLookupUnavailable = errors.New("support case lookup unavailable")
)
