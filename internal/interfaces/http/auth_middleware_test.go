package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	apphttp "github.com/jhoicas/ahorro-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ahorro-api/pkg/jwt"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID   = "00000000-0000-0000-0000-000000000001"
	testDeviceID = "tel-prueba"
)

func testJWTConfig() pkgjwt.Config {
	return pkgjwt.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        "ahorro-api-test",
		Audience:      "ahorro-app-test",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
}

func newTestManager(t *testing.T) *pkgjwt.Manager {
	t.Helper()
	m, err := pkgjwt.New(testJWTConfig())
	require.NoError(t, err)
	return m
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(newTestManager(t)),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un token de acceso con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := newTestManager(t).GenerateAccess(testUserID, "ana@example.com", role, testDeviceID)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_ClienteBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleCustomer))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un cliente no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 3: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 4: Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		resp.Body.Close()
	}
}

// Caso 5: Token expirado → HTTP 401 TOKEN_EXPIRED.
func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTTL = -time.Minute
	expired, err := pkgjwt.New(cfg)
	require.NoError(t, err)
	tok, err := expired.GenerateAccess(testUserID, "ana@example.com", entity.RoleAdmin, testDeviceID)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TOKEN_EXPIRED")
}

// Caso 6: Un refresh token no sirve como token de acceso.
func TestAuthMiddleware_RefreshTokenRechazado(t *testing.T) {
	tok, err := newTestManager(t).GenerateRefresh(testUserID, testDeviceID, "sess-1")
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(newTestManager(t)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"email":     apphttp.GetEmail(c),
			"role":      apphttp.GetRole(c),
			"device_id": apphttp.GetDeviceID(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleCustomer))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, entity.RoleCustomer, body["role"])
	assert.Equal(t, testDeviceID, body["device_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireVerifiedDevice
// ──────────────────────────────────────────────────────────────────────────────

type stubChecker struct{ err error }

func (s stubChecker) EnsureVerified(_ context.Context, _, _ string) error { return s.err }

func buildDeviceGateApp(t *testing.T, checker stubChecker) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(newTestManager(t)),
		apphttp.RequireVerifiedDevice(checker, logger.Nop()),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireVerifiedDevice_Estados(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"verificado", nil, http.StatusOK, ""},
		{"no verificado", domain.ErrDeviceNotVerified, http.StatusForbidden, "DEVICE_NOT_VERIFIED"},
		{"fallo de infraestructura", domain.ErrDeviceCheckFailed, http.StatusServiceUnavailable, "DEVICE_CHECK_UNAVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildDeviceGateApp(t, stubChecker{err: tc.err}), tokenForRole(t, entity.RoleCustomer))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}
