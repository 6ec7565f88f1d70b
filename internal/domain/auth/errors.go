package auth

import "errors"

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrMissingClaims = errors.New("token is missing tenant or user claims")
)
