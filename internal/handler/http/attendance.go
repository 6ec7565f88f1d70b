package http

import (
	"net/http"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	rosterService     roster.RosterService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, rosterService roster.RosterService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		rosterService:     rosterService,
	}
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, user.ErrTenantIDRequired)
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), identity.TenantID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, user.ErrTenantIDRequired)
		return
	}

	query := r.URL.Query()
	filter := attendance.RangeFilter{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}

	result, err := h.attendanceService.ListRange(r.Context(), identity.TenantID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance returns the caller's own day grid for a month.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, user.ErrTenantIDRequired)
		return
	}

	query := roster.MonthQuery{Month: r.URL.Query().Get("month")}
	result, err := h.rosterService.GetTechnicianMonth(r.Context(), identity.TenantID, identity.UserID, query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
