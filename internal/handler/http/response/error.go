package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/sweep"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, "Invalid role")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrTenantIDRequired):
		Forbidden(w, "Tenant is required")

	// Sweep trigger errors
	case errors.Is(err, sweep.ErrUnauthorizedTrigger):
		Unauthorized(w, "Sweep trigger is not authorized")
	case errors.Is(err, sweep.ErrSweepNotConfigured):
		ServiceUnavailable(w, "Sweep trigger is not configured")

	// Attendance and roster errors
	case errors.Is(err, technician.ErrTechnicianNotFound):
		NotFound(w, "Technician not found")
	case errors.Is(err, roster.ErrInvalidMonth):
		ValidationError(w, map[string]string{"month": err.Error()})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
