package entity

import "errors"

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrInvalidTime   = errors.New("invalid return date time")
)
