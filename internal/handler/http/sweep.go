package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/sweep"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/response"
	"golang.org/x/crypto/bcrypt"
)

type SweepHandler interface {
	Trigger(w http.ResponseWriter, r *http.Request)
}

type sweepHandlerImpl struct {
	sweepService sweep.SweepService
	cfg          config.SweepConfig
}

func NewSweepHandler(sweepService sweep.SweepService, cfg config.SweepConfig) SweepHandler {
	return &sweepHandlerImpl{sweepService: sweepService, cfg: cfg}
}

// Trigger runs one cross-tenant sweep for an external scheduler.
func (h *sweepHandlerImpl) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		slog.Warn("Sweep: rejected trigger", "remote_addr", r.RemoteAddr, "error", err)
		response.HandleError(w, err)
		return
	}

	result, err := h.sweepService.RunAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// authorize accepts the secret from the trusted header, falling back to ?secret=.
// A configured bcrypt hash takes precedence over the plain secret.
func (h *sweepHandlerImpl) authorize(r *http.Request) error {
	if h.cfg.Secret == "" && h.cfg.SecretHash == "" {
		return sweep.ErrSweepNotConfigured
	}

	supplied := r.Header.Get(h.cfg.TrustedHeader)
	if supplied == "" {
		supplied = r.URL.Query().Get("secret")
	}
	if supplied == "" {
		return sweep.ErrUnauthorizedTrigger
	}

	if h.cfg.SecretHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.SecretHash), []byte(supplied)); err != nil {
			return sweep.ErrUnauthorizedTrigger
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.cfg.Secret)) != 1 {
		return sweep.ErrUnauthorizedTrigger
	}
	return nil
}
