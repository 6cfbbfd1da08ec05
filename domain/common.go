package domain

import (
	"errors"
)

const (
	RoleMechanic   = "mechanic"
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "token is invalid"

	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInvalid  = errors.New("token is invalid")
	ErrTokenExpired  = errors.New("token has expired")
)
