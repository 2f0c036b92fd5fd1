package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/memory"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevices(t *testing.T, userIDs ...string) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, id := range userIDs {
		require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), &entity.User{
			ID: id, Email: id + "@example.com", Role: entity.RoleCustomer,
		}))
	}
	return NewUseCase(memory.NewDeviceRepository(store), memory.NewTxRunner(store), logger.Nop()), store
}

func addSession(t *testing.T, store *memory.Store, id, userID, deviceID string) {
	t.Helper()
	require.NoError(t, memory.NewSessionRepository(store).Create(context.Background(), &entity.Session{
		ID: id, UserID: userID, DeviceID: deviceID, TokenHash: "hash-" + id, ExpiresAt: time.Now().Add(time.Hour),
	}))
}

func TestFindOrCreate_CreaSinVerificar(t *testing.T) {
	uc, _ := newTestDevices(t, "u1")
	ctx := context.Background()

	d, err := uc.FindOrCreate(ctx, "u1", " tel-1 ", "Pixel 8")
	require.NoError(t, err)
	assert.Equal(t, "tel-1", d.DeviceID)
	assert.False(t, d.Verified)

	again, err := uc.FindOrCreate(ctx, "u1", "tel-1", "")
	require.NoError(t, err)
	assert.Equal(t, d.ID, again.ID, "no debe crear un segundo registro")
}

func TestFindOrCreate_DispositivoDeOtroUsuario(t *testing.T) {
	uc, _ := newTestDevices(t, "u1", "u2")
	ctx := context.Background()

	_, err := uc.FindOrCreate(ctx, "u1", "tel-1", "")
	require.NoError(t, err)

	_, err = uc.FindOrCreate(ctx, "u2", "tel-1", "")
	assert.ErrorIs(t, err, domain.ErrDeviceOwnership)
}

func TestVerify_Idempotente(t *testing.T) {
	uc, store := newTestDevices(t, "u1")
	ctx := context.Background()
	_, err := uc.FindOrCreate(ctx, "u1", "tel-1", "")
	require.NoError(t, err)

	verifiedAt := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return verifiedAt }
	first, err := uc.Verify(ctx, "tel-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, first.Status)
	assert.True(t, first.Verified)

	uc.now = func() time.Time { return verifiedAt.Add(time.Hour) }
	for i := 0; i < 2; i++ {
		again, err := uc.Verify(ctx, "tel-1")
		require.NoError(t, err)
		assert.Equal(t, StatusAlreadyVerified, again.Status)
		assert.True(t, again.Verified)
	}

	d, err := memory.NewDeviceRepository(store).GetByDeviceID(ctx, "tel-1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.True(t, d.Verified)
	assert.True(t, d.UpdatedAt.Equal(verifiedAt), "las llamadas repetidas no tocan la fila")
}

func TestUnverify_BorraSesionesDelDispositivo(t *testing.T) {
	uc, store := newTestDevices(t, "u1")
	ctx := context.Background()
	_, err := uc.FindOrCreate(ctx, "u1", "tel-1", "")
	require.NoError(t, err)
	_, err = uc.FindOrCreate(ctx, "u1", "tel-2", "")
	require.NoError(t, err)
	_, err = uc.Verify(ctx, "tel-1")
	require.NoError(t, err)

	addSession(t, store, "s1", "u1", "tel-1")
	addSession(t, store, "s2", "u1", "tel-1")
	addSession(t, store, "s3", "u1", "tel-2")

	out, err := uc.Unverify(ctx, "tel-1")
	require.NoError(t, err)
	assert.Equal(t, StatusUnverified, out.Status)
	assert.Equal(t, int64(2), out.SessionsDeleted)

	sessions := memory.NewSessionRepository(store)
	assert.Zero(t, sessions.Count(ctx, "u1", "tel-1"))
	assert.Equal(t, 1, sessions.Count(ctx, "u1", "tel-2"), "las sesiones de otros dispositivos no se tocan")

	again, err := uc.Unverify(ctx, "tel-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyUnverified, again.Status)
	assert.Zero(t, again.SessionsDeleted)
}

func TestUnverify_FalloAlBorrarSesiones_NoCambiaEstado(t *testing.T) {
	uc, store := newTestDevices(t, "u1")
	ctx := context.Background()
	_, err := uc.FindOrCreate(ctx, "u1", "tel-1", "")
	require.NoError(t, err)
	_, err = uc.Verify(ctx, "tel-1")
	require.NoError(t, err)

	store.FailOn("session.DeleteAllForDevice", errors.New("timeout"))
	_, err = uc.Unverify(ctx, "tel-1")
	require.Error(t, err)
	store.FailOn("session.DeleteAllForDevice", nil)

	assert.NoError(t, uc.EnsureVerified(ctx, "u1", "tel-1"), "la revocación debe revertirse completa")
}

func TestVerify_DispositivoInexistente(t *testing.T) {
	uc, _ := newTestDevices(t)
	_, err := uc.Verify(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Unverify(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func TestEnsureVerified(t *testing.T) {
	uc, store := newTestDevices(t, "u1", "u2")
	ctx := context.Background()
	_, err := uc.FindOrCreate(ctx, "u1", "tel-1", "")
	require.NoError(t, err)

	assert.ErrorIs(t, uc.EnsureVerified(ctx, "u1", "tel-1"), domain.ErrDeviceNotVerified)

	_, err = uc.Verify(ctx, "tel-1")
	require.NoError(t, err)
	assert.NoError(t, uc.EnsureVerified(ctx, "u1", "tel-1"))
	assert.ErrorIs(t, uc.EnsureVerified(ctx, "u2", "tel-1"), domain.ErrDeviceNotVerified)
	assert.ErrorIs(t, uc.EnsureVerified(ctx, "u1", ""), domain.ErrDeviceNotVerified)

	store.FailOn("device.GetByDeviceID", errors.New("db caída"))
	err = uc.EnsureVerified(ctx, "u1", "tel-1")
	assert.ErrorIs(t, err, domain.ErrDeviceCheckFailed)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestList_FiltroYValidacion(t *testing.T) {
	uc, _ := newTestDevices(t, "u1")
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, err := uc.FindOrCreate(ctx, "u1", id, "")
		require.NoError(t, err)
	}
	_, err := uc.Verify(ctx, "b")
	require.NoError(t, err)

	verified, err := uc.List(ctx, dto.DeviceListRequest{Status: entity.DeviceStatusVerified})
	require.NoError(t, err)
	require.Len(t, verified.Items, 1)
	assert.Equal(t, "b", verified.Items[0].DeviceID)

	all, err := uc.List(ctx, dto.DeviceListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, 20, all.Page.Limit)

	_, err = uc.List(ctx, dto.DeviceListRequest{Status: "raro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
