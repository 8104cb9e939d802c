package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/handler"
	"github.com/finbudd/cfa-tracker-api/internal/service"
)

type stubAdminService struct {
	response dto.AdminDashboardResponse
	err      error
	calls    int
}

func (s *stubAdminService) GetDashboard(_ context.Context) (dto.AdminDashboardResponse, error) {
	s.calls++
	if s.err != nil {
		return dto.AdminDashboardResponse{}, s.err
	}
	return s.response, nil
}

var _ service.AdminService = (*stubAdminService)(nil)

func TestAdminDashboardHandler_Success(t *testing.T) {
	svc := &stubAdminService{response: dto.AdminDashboardResponse{
		KPIs: dto.AdminKPIs{TotalStudents: 2, AvgScore: 65},
		Students: []dto.AdminStudentOverview{
			{ID: "u-1", Name: "Alice", Status: "Needs Work"},
			{ID: "u-2", Name: "Bob", Status: "At Risk"},
		},
	}}

	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dashboard dto.AdminDashboardResponse
	success, message := decodeEnvelope(t, resp, &dashboard)
	require.True(t, success)
	require.Equal(t, "admin dashboard retrieved", message)
	require.Equal(t, 2, dashboard.KPIs.TotalStudents)
	require.Len(t, dashboard.Students, 2)
	require.Equal(t, 1, svc.calls)
}

func TestAdminDashboardHandler_ServiceFailure(t *testing.T) {
	svc := &stubAdminService{err: errors.New("store unreachable")}

	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	success, message := decodeEnvelope(t, resp, nil)
	require.False(t, success)
	require.NotContains(t, message, "unreachable", "internal detail must not leak")
}
