package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/ahorro-api/internal/application/analytics"
	"github.com/jhoicas/ahorro-api/internal/application/auth"
	"github.com/jhoicas/ahorro-api/internal/application/customer"
	"github.com/jhoicas/ahorro-api/internal/application/device"
	"github.com/jhoicas/ahorro-api/internal/application/ledger"
	"github.com/jhoicas/ahorro-api/internal/application/statement"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/memory"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/ahorro-api/internal/interfaces/http"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/jhoicas/ahorro-api/pkg/password"
)

const (
	adminEmail  = "admin@example.com"
	adminDevice = "admin-pc"
	clientPass  = "s3cret-pass"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

// newAPI arma la API completa sobre el almacén en memoria, con un administrador sembrado.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	hasher := password.New(password.Config{SaltBytes: 16, Iterations: 1000, KeyLength: 64})
	tokens := newTestManager(t)

	users := memory.NewUserRepository(store)
	devices := memory.NewDeviceRepository(store)
	accounts := memory.NewAccountRepository(store)
	txs := memory.NewTransactionRepository(store)
	runner := memory.NewTxRunner(store)

	deviceUC := device.NewUseCase(devices, runner, log)
	authUC, err := auth.NewAuthUseCase(users, devices, memory.NewSessionRepository(store), deviceUC, runner, hasher, tokens, auth.Config{}, log)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		LedgerUC:    ledger.NewUseCase(accounts, txs, runner, ledger.Config{Locale: "es-CO"}, log),
		StatementUC: statement.NewUseCase(users, accounts, txs, pdf.NewMarotoStatementGenerator("ahorro-api", "es-CO")),
		DeviceUC:    deviceUC,
		CustomerUC:  customer.NewUseCase(users, accounts, devices),
		DashboardUC: appanalytics.NewDashboardUseCase(memory.NewAnalyticsRepository(store)),
		Tokens:      tokens,
		Log:         log,
	})

	salt, hash, err := hasher.Hash(clientPass, "")
	require.NoError(t, err)
	adminID := uuid.New().String()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &entity.User{ID: adminID, Email: adminEmail, Name: "Admin", Role: entity.RoleAdmin, PasswordSalt: salt, PasswordHash: hash}))
	require.NoError(t, devices.Create(ctx, &entity.Device{ID: uuid.New().String(), DeviceID: adminDevice, UserID: adminID, Verified: true}))

	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) call(t *testing.T, method, path, bearer string, body any) (*http.Response, map[string]any) {
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
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (f *apiFixture) adminToken(t *testing.T) string {
	t.Helper()
	resp, body := f.call(t, http.MethodPost, "/api/admin/auth/login", "", fiber.Map{
		"email": adminEmail, "password": clientPass, "deviceId": adminDevice,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return body["tokens"].(map[string]any)["accessToken"].(string)
}

// customerTokens registra, verifica y hace login de un cliente; devuelve access y refresh.
func (f *apiFixture) customerTokens(t *testing.T, email, deviceID string) (string, string) {
	t.Helper()
	resp, body := f.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": email, "password": clientPass, "name": "Ana", "deviceId": deviceID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, _ = f.call(t, http.MethodPost, "/api/admin/devices/"+deviceID+"/verify", f.adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": email, "password": clientPass, "deviceId": deviceID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	tokens := body["tokens"].(map[string]any)
	return tokens["accessToken"].(string), tokens["refreshToken"].(string)
}

func TestRouter_Health(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_LoginPendienteDevuelve202(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "ana@example.com", "password": clientPass, "name": "Ana", "deviceId": "tel-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ana@example.com", "password": clientPass, "deviceId": "tel-1",
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, true, body["devicePending"])
	assert.NotContains(t, body, "tokens")
}

func TestRouter_FlujoDeSaldo(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")

	resp, body := f.call(t, http.MethodPost, "/api/account/deposit", access, fiber.Map{"amount": "1000.00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "1000", body["balance"])

	resp, body = f.call(t, http.MethodPost, "/api/account/withdraw", access, fiber.Map{"amount": "1000.00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "0", body["balance"])

	resp, body = f.call(t, http.MethodPost, "/api/account/withdraw", access, fiber.Map{"amount": "1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])
	assert.Contains(t, body["message"], "Saldo disponible: 0")

	resp, body = f.call(t, http.MethodPost, "/api/account/deposit", access, fiber.Map{"amount": "0.001"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])

	resp, body = f.call(t, http.MethodGet, "/api/account/balance", access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", body["balance"])

	resp, body = f.call(t, http.MethodGet, "/api/account/transactions?limit=1", access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)
	assert.EqualValues(t, 2, body["page"].(map[string]any)["total"])
}

func TestRouter_ExtractoPDF(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")
	f.call(t, http.MethodPost, "/api/account/deposit", access, fiber.Map{"amount": 50})

	req := httptest.NewRequest(http.MethodGet, "/api/account/statement.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "extracto_")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRouter_RevocacionCortaAccesoYRefresh(t *testing.T) {
	f := newAPI(t)
	access, refresh := f.customerTokens(t, "ana@example.com", "tel-1")

	resp, body := f.call(t, http.MethodPost, "/api/admin/devices/tel-1/unverify", f.adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UNVERIFIED", body["status"])
	assert.EqualValues(t, 1, body["sessionsDeleted"])

	resp, body = f.call(t, http.MethodGet, "/api/account/balance", access, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el token de acceso vigente deja de servir")
	assert.Equal(t, "DEVICE_NOT_VERIFIED", body["code"])

	resp, body = f.call(t, http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refreshToken": refresh})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "DEVICE_REVOKED", body["code"])
}

func TestRouter_RefreshYLogout(t *testing.T) {
	f := newAPI(t)
	access, refresh := f.customerTokens(t, "ana@example.com", "tel-1")

	resp, body := f.call(t, http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.NotEmpty(t, body["accessToken"])

	resp, body = f.call(t, http.MethodPost, "/api/auth/logout", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["sessionsDeleted"])

	resp, body = f.call(t, http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refreshToken": refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_SESSION", body["code"])

	resp, _ = f.call(t, http.MethodPost, "/api/auth/refresh", "", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RutasAdminRequierenRolAdmin(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")

	resp, _ := f.call(t, http.MethodGet, "/api/admin/devices", access, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.call(t, http.MethodGet, "/api/admin/devices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	adminAccess := f.adminToken(t)
	resp, _ = f.call(t, http.MethodGet, "/api/account/balance", adminAccess, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un admin no tiene cuenta de ahorro")
}

func TestRouter_PanelAdministracion(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")
	f.call(t, http.MethodPost, "/api/account/deposit", access, fiber.Map{"amount": "123.45"})
	admin := f.adminToken(t)

	resp, body := f.call(t, http.MethodGet, "/api/admin/devices?status=verified", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["page"].(map[string]any)["total"], "tel-1 y el equipo del admin")

	resp, body = f.call(t, http.MethodGet, "/api/admin/analytics/summary", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["customers"])
	assert.Equal(t, "123.45", body["totalBalance"])

	resp, body = f.call(t, http.MethodGet, "/api/admin/customers/"+uuid.New().String(), admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", body["code"])
}

func TestRouter_ErrorInternoNoSeFiltra(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")
	f.store.FailOn("account.GetByUserID", errors.New("pq: password authentication failed for user root"))

	resp, body := f.call(t, http.MethodGet, "/api/account/balance", access, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.NotContains(t, body["message"], "password")
}

func TestRouter_DispositivoVerificado_SigueValidoEnPeticionesSiguientes(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")
	admin := f.adminToken(t)

	for i := 0; i < 3; i++ {
		// peticiones intermedias reutilizan los buffers de Fiber
		resp, _ := f.call(t, http.MethodGet, "/api/admin/devices?status=pending", admin, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = f.call(t, http.MethodPost, "/api/admin/devices/zzzzz/verify", admin, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, body := f.call(t, http.MethodGet, "/api/account/balance", access, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
	}

	resp, body := f.call(t, http.MethodGet, "/api/admin/devices?status=verified", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ids := []string{}
	for _, it := range body["items"].([]any) {
		ids = append(ids, it.(map[string]any)["deviceId"].(string))
	}
	assert.ElementsMatch(t, []string{"tel-1", adminDevice}, ids)
}

func TestRouter_ClienteConIDMalFormado_Devuelve404(t *testing.T) {
	f := newAPI(t)
	admin := f.adminToken(t)

	for _, id := range []string{"no-es-uuid", "123", "00000000-0000-0000-0000-00000000000Z"} {
		resp, body := f.call(t, http.MethodGet, "/api/admin/customers/"+id, admin, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
		assert.Equal(t, "USER_NOT_FOUND", body["code"], id)
	}
}

func TestRouter_DepositoConExponenteExtremo_Devuelve400(t *testing.T) {
	f := newAPI(t)
	access, _ := f.customerTokens(t, "ana@example.com", "tel-1")

	for _, amount := range []string{"1e999999999", "1e-999999999"} {
		resp, body := f.call(t, http.MethodPost, "/api/account/deposit", access, fiber.Map{"amount": amount})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, amount)
		assert.Equal(t, "INVALID_AMOUNT", body["code"], amount)
	}
}
