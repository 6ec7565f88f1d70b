package user

import "errors"

var (
	ErrInvalidRole             = errors.New("invalid role")
	ErrTenantIDRequired        = errors.New("tenant ID is required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
