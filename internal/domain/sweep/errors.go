package sweep

import "errors"

var (
	ErrUnauthorizedTrigger = errors.New("sweep trigger is not authorized")
	ErrSweepNotConfigured  = errors.New("sweep secret is not configured")
)
