package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/localstore"
	"github.com/jhoicas/visitas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/visitas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/visitas-api/internal/interfaces/http"
	"github.com/jhoicas/visitas-api/pkg/config"
)

type testServer struct {
	app     *fiber.App
	blob    *localstore.MemoryBlob
	metrics *metrics.Metrics
}

// newTestServer arma la API completa sobre el backend local en memoria con
// admin/123, juan/123 y un cliente.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	blob := localstore.NewMemoryBlob()
	rs := records.NewService(localstore.New(blob).Backend(), records.Options{}, zerolog.Nop())
	verifier, err := auth.NewVerifier(rs, nil, auth.Options{Mode: auth.ModePlain, AllowInviteClaim: true}, zerolog.Nop())
	require.NoError(t, err)

	_, err = verifier.Provision(ctx, &entity.User{Identifier: "admin", Name: "Administrador", Role: entity.RoleAdmin}, "123")
	require.NoError(t, err)
	_, err = verifier.Provision(ctx, &entity.User{Identifier: "juan", Name: "Juan Pérez", Role: entity.RoleVendor}, "123")
	require.NoError(t, err)
	_, err = rs.CreateClient(ctx, &entity.Client{Name: "Tech Solutions", Contact: "Carlos Gomez", Phone: "3001234567", Type: "Recurrente"})
	require.NoError(t, err)

	m := metrics.New()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Records:      rs,
		Verifier:     verifier,
		Autocomplete: clients.NewAutocomplete(rs),
		Exporter:     reports.NewExporter(rs, pdf.NewReportRenderer("Reporte de visitas"), nil, reports.ExporterOptions{}, zerolog.Nop()),
		Metrics:      m,
		JWT:          config.JWTConfig{Secret: testJWTSecret, Expiration: testExpMin, Issuer: testIssuer},
	})
	return &testServer{app: app, blob: blob, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func acmeReport() map[string]any {
	return map[string]any{
		"fecha":          "2024-05-10",
		"hora_inicio":    "09:00",
		"hora_fin":       "10:00",
		"empresa":        "Acme",
		"nombre_cliente": "Ana",
		"contacto":       "555",
		"tipo_actividad": "visita",
		"descripcion":    "Presentación",
		"monto":          "1500.50",
		"cobranza":       true,
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "juan", Password: "mala"})
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", out.Code)
}

func TestLogin_BackendCaido_Retorna503(t *testing.T) {
	s := newTestServer(t)
	s.blob.SetErr(io.ErrUnexpectedEOF)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "juan", Password: "123"})
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "BACKEND_UNAVAILABLE", out.Code)
}

func TestSession_DevuelveLaSesionDelToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "juan", "123")

	resp := s.do(t, http.MethodGet, "/api/auth/session", token, nil)
	out := decode[dto.SessionResponse](t, resp)
	assert.Equal(t, dto.SessionResponse{Username: "juan", Name: "Juan Pérez", Role: "vendor"}, out)

	resp = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReports_VendedorCreaYConsultaLosSuyos(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "juan", "123")

	resp := s.do(t, http.MethodPost, "/api/reports", token, acmeReport())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CreateReportResponse](t, resp)
	assert.Equal(t, "Juan Pérez", created.Report.Advisor)
	assert.Equal(t, "juan", created.Report.AdvisorID)
	assert.Empty(t, created.Warning)
	assert.Equal(t, "1500.5", created.Report.Amount.Decimal.String())

	resp = s.do(t, http.MethodGet, "/api/reports/mine", token, nil)
	mine := decode[dto.ListResponse[dto.ReportResponse]](t, resp)
	require.Equal(t, 1, mine.Total)
	assert.Equal(t, "Acme", mine.Items[0].Company)

	// El cliente nuevo quedó en el directorio.
	resp = s.do(t, http.MethodGet, "/api/clients/suggest?q=ac", token, nil)
	sugg := decode[dto.ListResponse[dto.SuggestionResponse]](t, resp)
	require.Equal(t, 1, sugg.Total)
	assert.Equal(t, clients.ReportDraft{Company: "Acme", ContactName: "Ana", ContactPhone: "555", ClientType: "Nuevo"}, sugg.Items[0].Fill)
}

func TestReports_ValidacionDevuelve400(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "juan", "123")
	body := acmeReport()
	delete(body, "empresa")

	resp := s.do(t, http.MethodPost, "/api/reports", token, body)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestReports_VendedorNoAccedeAlPanel(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "juan", "123")

	for _, path := range []string{"/api/reports", "/api/reports/export", "/api/users", "/api/clients"} {
		resp := s.do(t, http.MethodGet, path, token, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestReports_AdminFiltraYExporta(t *testing.T) {
	s := newTestServer(t)
	vendor := s.login(t, "juan", "123")
	resp := s.do(t, http.MethodPost, "/api/reports", vendor, acmeReport())
	resp.Body.Close()
	other := acmeReport()
	other["empresa"] = "Tech Solutions"
	other["fecha"] = "2024-06-01"
	resp = s.do(t, http.MethodPost, "/api/reports", vendor, other)
	resp.Body.Close()

	admin := s.login(t, "admin", "123")

	resp = s.do(t, http.MethodGet, "/api/reports?empresa=tech", admin, nil)
	list := decode[dto.ListResponse[dto.ReportResponse]](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Tech Solutions", list.Items[0].Company)

	resp = s.do(t, http.MethodGet, "/api/reports?from=2024-05-01&to=2024-05-31", admin, nil)
	list = decode[dto.ListResponse[dto.ReportResponse]](t, resp)
	assert.Equal(t, 1, list.Total)

	resp = s.do(t, http.MethodGet, "/api/reports/export?asesor=Juan%20P%C3%A9rez", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reporte_ventas_")
	raw, _ := io.ReadAll(resp.Body)
	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(reports.CSVHeader, ","), lines[0])

	resp = s.do(t, http.MethodGet, "/api/reports/advisors", admin, nil)
	advisors := decode[dto.ListResponse[string]](t, resp)
	assert.Equal(t, []string{"Juan Pérez"}, advisors.Items)
}

func TestReports_ExportSinDatos(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "123")

	resp := s.do(t, http.MethodGet, "/api/reports/export?format=pdf", admin, nil)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_DATA", out.Code)
	assert.Equal(t, reports.NoDataMessage, out.Message)
}

func TestClients_SugerenciaCortaYTelefono(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "juan", "123")

	resp := s.do(t, http.MethodGet, "/api/clients/suggest?q=t", token, nil)
	sugg := decode[dto.ListResponse[dto.SuggestionResponse]](t, resp)
	assert.Equal(t, 0, sugg.Total)
	assert.NotNil(t, sugg.Items)

	resp = s.do(t, http.MethodGet, "/api/clients/phone/3001234567", token, nil)
	check := decode[dto.PhoneCheckResponse](t, resp)
	assert.True(t, check.Exists)
	assert.Equal(t, clients.DuplicatePhoneWarning, check.Warning)
	require.NotNil(t, check.Client)
	assert.Equal(t, "Tech Solutions", check.Client.Name)

	resp = s.do(t, http.MethodGet, "/api/clients/phone/999", token, nil)
	check = decode[dto.PhoneCheckResponse](t, resp)
	assert.False(t, check.Exists)
}

func TestClients_AdminCreaYDuplicado(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "123")

	resp := s.do(t, http.MethodPost, "/api/clients", admin, dto.CreateClientRequest{Name: "Ferretería Central", Contact: "Luis", Phone: "3200000000"})
	created := decode[dto.ClientResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Nuevo", created.Type)

	resp = s.do(t, http.MethodPost, "/api/clients", admin, dto.CreateClientRequest{Name: "Ferretería Central"})
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", out.Code)

	resp = s.do(t, http.MethodGet, "/api/clients", admin, nil)
	list := decode[dto.ListResponse[dto.ClientResponse]](t, resp)
	assert.Equal(t, 2, list.Total)
}

func TestUsers_AdminGestionaCuentas(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "123")

	resp := s.do(t, http.MethodPost, "/api/users", admin, dto.CreateUserRequest{Username: "maria", Password: "abc", Name: "María"})
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "vendor", user.Role)
	assert.False(t, user.Pending)

	resp = s.do(t, http.MethodPost, "/api/users", admin, dto.CreateUserRequest{Username: "maria", Password: "abc"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/users/invite", admin, dto.InviteUserRequest{Username: "pedro", Name: "Pedro"})
	invite := decode[dto.UserResponse](t, resp)
	assert.True(t, invite.Pending)

	// La invitación se reclama en el primer login con la contraseña elegida.
	s.login(t, "pedro", "nueva")
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "pedro", Password: "otra"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPut, "/api/users/maria/password", admin, dto.UpdatePasswordRequest{Password: "xyz"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	s.login(t, "maria", "xyz")

	resp = s.do(t, http.MethodPut, "/api/users/nadie/password", admin, dto.UpdatePasswordRequest{Password: "xyz"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/users", admin, nil)
	list := decode[dto.ListResponse[dto.UserResponse]](t, resp)
	assert.Equal(t, 4, list.Total)
}
