package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/sqlite/sqlitetest"
	attendanceService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/attendance"
	rosterService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/roster"
	sweepService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/sweep"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret      = "test-secret-key-for-jwt"
	handlerTestCronSecret  = "cron-shared-secret"
	handlerTestCronHeader  = "X-Cron-Trigger"
	handlerTestAccessExp   = "1h"
	handlerTestUnknownUser = "7d0f2c4e-9a51-4c1b-8e0a-2f4b6d8c1e3a"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	router *chi.Mux
	jwt    jwt.Service
	store  *sqlitetest.Store
	seeded fixtures.Seeded
}

// newTestServer wires the full stack over sqlite with the clock at 2025-03-10 18:30 local.
func newTestServer(t *testing.T, sweepCfg config.SweepConfig) testServer {
	t.Helper()

	store := sqlitetest.New(t)
	seeded := store.SeedTenant(t, fixtures.DefaultDemoTenant())
	c := clock.NewFixed(time.Date(2025, 3, 10, 18, 30, 0, 0, clock.BusinessLocation))

	attendances := attendanceService.NewAttendanceService(store.Attendance, store.Technicians, store.Windows, c)
	rosters := rosterService.NewRosterService(store.Attendance, store.Technicians, attendances, c)
	sweeps := sweepService.NewSweepService(store.Attendance, store.Windows, c, sweepService.Options{})

	if sweepCfg.TrustedHeader == "" {
		sweepCfg.TrustedHeader = handlerTestCronHeader
	}

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	router := NewRouter(jwtService, config.AppConfig{Env: "test", CORSAllowedOrigins: []string{"http://localhost:3000"}}, Handlers{
		Attendance: NewAttendanceHandler(attendances, rosters),
		Roster:     NewRosterHandler(rosters),
		Sweep:      NewSweepHandler(sweeps, sweepCfg),
	})

	return testServer{router: router, jwt: jwtService, store: store, seeded: seeded}
}

func (s testServer) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(user.Identity{
		UserID:   s.seeded.Technicians[0].UserID,
		TenantID: s.seeded.Tenant.ID,
		Role:     role,
	})
	require.NoError(t, err)
	return token
}

func (s testServer) do(t *testing.T, method, target, token string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t, config.SweepConfig{})

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/attendance/today", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RolePermissions(t *testing.T) {
	s := newTestServer(t, config.SweepConfig{})

	cases := []struct {
		role   user.Role
		target string
		want   int
	}{
		{user.RoleTechnician, "/api/v1/attendance/me?month=2025-03", http.StatusOK},
		{user.RoleTechnician, "/api/v1/attendance/today", http.StatusForbidden},
		{user.RoleTechnician, "/api/v1/attendance/roster?month=2025-03", http.StatusForbidden},
		{user.RoleDispatcher, "/api/v1/attendance/today", http.StatusOK},
		{user.RoleDispatcher, "/api/v1/attendance/roster?month=2025-03", http.StatusOK},
		{user.RoleDispatcher, "/api/v1/attendance/roster/export?month=2025-03", http.StatusForbidden},
		{user.RoleAdmin, "/api/v1/attendance/roster/export?month=2025-03", http.StatusOK},
		{user.RoleOwner, "/api/v1/attendance?start_date=2025-03-01&end_date=2025-03-10", http.StatusOK},
	}

	for _, c := range cases {
		t.Run(string(c.role)+" "+c.target, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, c.target, s.token(t, c.role), nil)
			assert.Equal(t, c.want, rec.Code, rec.Body.String())
		})
	}
}

func TestToday_ReconcilesOpenRecord(t *testing.T) {
	s := newTestServer(t, config.SweepConfig{})
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2025, 3, 10, 8, 50, 0, 0, clock.BusinessLocation)
	s.store.Put(t, attendance.Attendance{
		TenantID: s.seeded.Tenant.ID,
		UserID:   s.seeded.Technicians[0].UserID,
		Date:     today,
		ClockIn:  &clockIn,
	})

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", s.token(t, user.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body attendance.TodayResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Equal(t, "2025-03-10", body.Date)
	assert.Equal(t, "18:00", body.WorkWindow.EndTime)
	require.Len(t, body.Technicians, 3)
	require.NotNil(t, body.Technicians[0].Record)
	assert.True(t, body.Technicians[0].Record.IsAutoCheckout)
	assert.Nil(t, body.Technicians[1].Record)
}

func TestRoster_ValidationAndNotFound(t *testing.T) {
	s := newTestServer(t, config.SweepConfig{})
	token := s.token(t, user.RoleOwner)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/roster?month=2025-3", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "month")

	rec = s.do(t, http.MethodGet, "/api/v1/attendance/roster/"+handlerTestUnknownUser+"?month=2025-02", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/attendance?start_date=2025-03-10&end_date=2025-03-01", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRoster_ExportHeaders(t *testing.T) {
	s := newTestServer(t, config.SweepConfig{})

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/roster/export?month=2025-02", s.token(t, user.RoleOwner), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=roster-2025-02.xlsx`, rec.Header().Get("Content-Disposition"))
	assert.NotZero(t, rec.Body.Len())
}

func TestSweepTrigger(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestCronSecret), bcrypt.MinCost)
	require.NoError(t, err)

	cases := []struct {
		name    string
		cfg     config.SweepConfig
		target  string
		headers map[string]string
		want    int
	}{
		{"not configured", config.SweepConfig{}, "/api/v1/cron/attendance-sweep", nil, http.StatusServiceUnavailable},
		{"missing secret", config.SweepConfig{Secret: handlerTestCronSecret}, "/api/v1/cron/attendance-sweep", nil, http.StatusUnauthorized},
		{"wrong secret", config.SweepConfig{Secret: handlerTestCronSecret}, "/api/v1/cron/attendance-sweep?secret=nope", nil, http.StatusUnauthorized},
		{"query secret", config.SweepConfig{Secret: handlerTestCronSecret}, "/api/v1/cron/attendance-sweep?secret=" + handlerTestCronSecret, nil, http.StatusOK},
		{"trusted header", config.SweepConfig{Secret: handlerTestCronSecret}, "/api/v1/cron/attendance-sweep", map[string]string{handlerTestCronHeader: handlerTestCronSecret}, http.StatusOK},
		{"bcrypt hash", config.SweepConfig{SecretHash: string(hash)}, "/api/v1/cron/attendance-sweep", map[string]string{handlerTestCronHeader: handlerTestCronSecret}, http.StatusOK},
		{"bcrypt mismatch", config.SweepConfig{SecretHash: string(hash)}, "/api/v1/cron/attendance-sweep?secret=nope", nil, http.StatusUnauthorized},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer(t, c.cfg)
			rec := s.do(t, http.MethodPost, c.target, "", c.headers)
			assert.Equal(t, c.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSweepTrigger_ReportsCounters(t *testing.T) {
	s := newTestServer(t, config.SweepConfig{Secret: handlerTestCronSecret})
	yesterday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2025, 3, 9, 9, 5, 0, 0, clock.BusinessLocation)
	s.store.Put(t, attendance.Attendance{
		TenantID: s.seeded.Tenant.ID,
		UserID:   s.seeded.Technicians[1].UserID,
		Date:     yesterday,
		ClockIn:  &clockIn,
	})

	rec := s.do(t, http.MethodGet, "/api/v1/cron/attendance-sweep", "", map[string]string{handlerTestCronHeader: handlerTestCronSecret})
	require.Equal(t, http.StatusOK, rec.Code)

	var counters map[string]int
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &counters))
	assert.Equal(t, 1, counters["tenantsProcessed"])
	assert.Equal(t, 1, counters["candidates"])
	assert.Equal(t, 1, counters["autoCheckedOut"])
	assert.Equal(t, 0, counters["failed"])
}
