package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ahorro-api/internal/application/device"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/memory"
	"github.com/jhoicas/ahorro-api/pkg/jwt"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/jhoicas/ahorro-api/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "s3cret-pass"

type fixture struct {
	uc      *AuthUseCase
	devices *device.UseCase
	store   *memory.Store
	hasher  *password.Hasher
	tokens  *jwt.Manager
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	hasher := password.New(password.Config{SaltBytes: 16, Iterations: 1000, KeyLength: 64})
	tokens, err := jwt.New(jwt.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "ahorro-api",
		Audience:      "ahorro-app",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	runner := memory.NewTxRunner(store)
	devices := device.NewUseCase(memory.NewDeviceRepository(store), runner, logger.Nop())
	uc, err := NewAuthUseCase(
		memory.NewUserRepository(store),
		memory.NewDeviceRepository(store),
		memory.NewSessionRepository(store),
		devices,
		runner,
		hasher,
		tokens,
		cfg,
		logger.Nop(),
	)
	require.NoError(t, err)
	return &fixture{uc: uc, devices: devices, store: store, hasher: hasher, tokens: tokens}
}

func (f *fixture) register(t *testing.T, email, deviceID string) *dto.RegisterResponse {
	t.Helper()
	out, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: email, Password: testPassword, Name: "Ana Pérez", DeviceID: deviceID,
	})
	require.NoError(t, err)
	return out
}

// loggedIn registra al cliente, verifica su dispositivo y devuelve los tokens del login.
func (f *fixture) loggedIn(t *testing.T, email, deviceID string) *dto.TokenPair {
	t.Helper()
	f.register(t, email, deviceID)
	_, err := f.devices.Verify(context.Background(), deviceID)
	require.NoError(t, err)
	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: email, Password: testPassword, DeviceID: deviceID})
	require.NoError(t, err)
	require.NotNil(t, out.Tokens)
	return out.Tokens
}

func (f *fixture) seedAdmin(t *testing.T, email, deviceID string) {
	t.Helper()
	ctx := context.Background()
	salt, hash, err := f.hasher.Hash(testPassword, "")
	require.NoError(t, err)
	id := uuid.New().String()
	require.NoError(t, memory.NewUserRepository(f.store).Create(ctx, &entity.User{
		ID: id, Email: email, Name: "Admin", Role: entity.RoleAdmin, PasswordSalt: salt, PasswordHash: hash,
	}))
	require.NoError(t, memory.NewDeviceRepository(f.store).Create(ctx, &entity.Device{
		ID: uuid.New().String(), DeviceID: deviceID, UserID: id, Verified: true,
	}))
}

func TestRegister_DispositivoPendienteYCuentaEnCero(t *testing.T) {
	f := newFixture(t, Config{})
	out := f.register(t, "  Ana@Example.COM ", "tel-1")

	assert.True(t, out.DevicePending)
	assert.Equal(t, "ana@example.com", out.User.Email)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
	assert.False(t, out.Device.Verified)

	acc, err := memory.NewAccountRepository(f.store).GetByUserID(context.Background(), out.User.ID)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.True(t, acc.Balance.IsZero())
}

func TestRegister_EmailDuplicado(t *testing.T) {
	f := newFixture(t, Config{})
	f.register(t, "ana@example.com", "tel-1")

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ANA@example.com", Password: testPassword, Name: "Otra", DeviceID: "tel-2",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_DispositivoYaRegistrado_NoCreaUsuario(t *testing.T) {
	f := newFixture(t, Config{})
	f.register(t, "ana@example.com", "tel-1")

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "luis@example.com", Password: testPassword, Name: "Luis", DeviceID: "tel-1",
	})
	assert.ErrorIs(t, err, domain.ErrDeviceAlreadyRegistered)

	u, err := memory.NewUserRepository(f.store).GetByEmail(context.Background(), "luis@example.com")
	require.NoError(t, err)
	assert.Nil(t, u, "el registro fallido no debe dejar el usuario creado")
}

func TestRegister_Validaciones(t *testing.T) {
	f := newFixture(t, Config{})
	cases := []dto.RegisterRequest{
		{Email: "no-es-email", Password: testPassword, Name: "A", DeviceID: "d"},
		{Email: "Ana <ana@example.com>", Password: testPassword, Name: "A", DeviceID: "d"},
		{Email: "ana@example.com", Password: "corta", Name: "A", DeviceID: "d"},
		{Email: "ana@example.com", Password: testPassword, Name: " ", DeviceID: "d"},
		{Email: "ana@example.com", Password: testPassword, Name: "A", DeviceID: ""},
	}
	for _, in := range cases {
		_, err := f.uc.Register(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in.Email)
	}
}

func TestLogin_PendienteLuegoVerificadoEmiteTokens(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	f.register(t, "ana@example.com", "tel-1")
	in := dto.LoginRequest{Email: "ana@example.com", Password: testPassword, DeviceID: "tel-1"}

	pending, err := f.uc.Login(ctx, in)
	require.NoError(t, err)
	assert.True(t, pending.DevicePending)
	assert.Equal(t, "tel-1", pending.DeviceID)
	assert.Nil(t, pending.Tokens)

	_, err = f.devices.Verify(ctx, "tel-1")
	require.NoError(t, err)

	out, err := f.uc.Login(ctx, in)
	require.NoError(t, err)
	assert.False(t, out.DevicePending)
	require.NotNil(t, out.Tokens)
	assert.Equal(t, "Bearer", out.Tokens.TokenType)
	assert.Equal(t, 900, out.Tokens.ExpiresIn)

	claims, err := f.tokens.ParseAccess(out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tel-1", claims.DeviceID)
	assert.Equal(t, entity.RoleCustomer, claims.Role)
}

func TestLogin_DispositivoNuevoQuedaPendiente(t *testing.T) {
	f := newFixture(t, Config{})
	f.loggedIn(t, "ana@example.com", "tel-1")

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: testPassword, DeviceID: "tablet"})
	require.NoError(t, err)
	assert.True(t, out.DevicePending)

	d, err := memory.NewDeviceRepository(f.store).GetByDeviceID(context.Background(), "tablet")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.False(t, d.Verified)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newFixture(t, Config{})
	f.register(t, "ana@example.com", "tel-1")

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta", DeviceID: "tel-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: testPassword, DeviceID: "tel-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_DispositivoDeOtroUsuario(t *testing.T) {
	f := newFixture(t, Config{})
	f.register(t, "ana@example.com", "tel-1")
	f.register(t, "luis@example.com", "tel-2")

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "luis@example.com", Password: testPassword, DeviceID: "tel-1"})
	assert.ErrorIs(t, err, domain.ErrDeviceOwnership)
}

func TestAdminLogin_RolIncorrecto(t *testing.T) {
	f := newFixture(t, Config{})
	f.register(t, "ana@example.com", "tel-1")
	f.seedAdmin(t, "admin@example.com", "admin-pc")

	_, err := f.uc.AdminLogin(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: testPassword, DeviceID: "tel-1"})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: testPassword, DeviceID: "admin-pc"})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	out, err := f.uc.AdminLogin(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: testPassword, DeviceID: "admin-pc"})
	require.NoError(t, err)
	require.NotNil(t, out.Tokens)

	refreshed, err := f.uc.AdminRefresh(context.Background(), out.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.uc.Refresh(context.Background(), out.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)
}

func TestRefresh_SinRotacionDevuelveElMismoToken(t *testing.T) {
	f := newFixture(t, Config{})
	pair := f.loggedIn(t, "ana@example.com", "tel-1")

	out, err := f.uc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, out.RefreshToken)

	claims, err := f.tokens.ParseAccess(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tel-1", claims.DeviceID)
}

func TestRefresh_ConRotacionInvalidaElAnterior(t *testing.T) {
	f := newFixture(t, Config{RotateRefreshTokens: true})
	pair := f.loggedIn(t, "ana@example.com", "tel-1")

	out, err := f.uc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, out.RefreshToken)

	_, err = f.uc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = f.uc.Refresh(context.Background(), out.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_DispositivoRevocado_Forbidden(t *testing.T) {
	f := newFixture(t, Config{})
	pair := f.loggedIn(t, "ana@example.com", "tel-1")

	unv, err := f.devices.Unverify(context.Background(), "tel-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unv.SessionsDeleted)

	_, err = f.uc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrDeviceRevoked)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Volver a verificar no resucita la sesión borrada.
	_, err = f.devices.Verify(context.Background(), "tel-1")
	require.NoError(t, err)
	_, err = f.uc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestRefresh_SesionVencidaSeBorra(t *testing.T) {
	f := newFixture(t, Config{})
	pair := f.loggedIn(t, "ana@example.com", "tel-1")

	f.uc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err := f.uc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	claims, err := f.tokens.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Zero(t, memory.NewSessionRepository(f.store).Count(context.Background(), claims.UserID, "tel-1"))
}

func TestRefresh_TokenDeAccesoNoSirve(t *testing.T) {
	f := newFixture(t, Config{})
	pair := f.loggedIn(t, "ana@example.com", "tel-1")

	_, err := f.uc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = f.uc.Refresh(context.Background(), "basura")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogout_BorraSesionesDelDispositivo(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	pair := f.loggedIn(t, "ana@example.com", "tel-1")
	claims, err := f.tokens.ParseAccess(pair.AccessToken)
	require.NoError(t, err)

	out, err := f.uc.Logout(ctx, claims.UserID, "tel-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.SessionsDeleted)

	again, err := f.uc.Logout(ctx, claims.UserID, "tel-1")
	require.NoError(t, err)
	assert.Zero(t, again.SessionsDeleted)

	_, err = f.uc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestLogout_DispositivoAjeno(t *testing.T) {
	f := newFixture(t, Config{})
	f.register(t, "ana@example.com", "tel-1")

	_, err := f.uc.Logout(context.Background(), "otro-usuario", "tel-1")
	assert.ErrorIs(t, err, domain.ErrDeviceOwnership)
}

func TestHashToken_Determinista(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
