package model

import "errors"

var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAgentInactive      = errors.New("agent account is inactive")
)
