package http

import (
	"net/http"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RosterHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
	TechnicianMonth(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type rosterHandlerImpl struct {
	rosterService roster.RosterService
}

func NewRosterHandler(rosterService roster.RosterService) RosterHandler {
	return &rosterHandlerImpl{rosterService: rosterService}
}

func monthQuery(r *http.Request) roster.MonthQuery {
	return roster.MonthQuery{Month: r.URL.Query().Get("month")}
}

// Monthly implements RosterHandler.
func (h *rosterHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, user.ErrTenantIDRequired)
		return
	}

	result, err := h.rosterService.GetMonthlyRoster(r.Context(), identity.TenantID, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TechnicianMonth implements RosterHandler.
func (h *rosterHandlerImpl) TechnicianMonth(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, user.ErrTenantIDRequired)
		return
	}

	userID := chi.URLParam(r, "userId")
	result, err := h.rosterService.GetTechnicianMonth(r.Context(), identity.TenantID, userID, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements RosterHandler.
func (h *rosterHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, user.ErrTenantIDRequired)
		return
	}

	export, err := h.rosterService.ExportMonthlyRoster(r.Context(), identity.TenantID, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, xlsxContentType, export.Filename, export.Content)
}
