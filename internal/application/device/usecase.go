// Package device implementa el almacén de confianza de dispositivos:
// [desconocido] -> UNVERIFIED <-> VERIFIED. Solo un administrador mueve un dispositivo entre estados.
package device

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// Resultados de verify/unverify. Los ALREADY_* son respuestas exitosas, no errores.
const (
	StatusVerified          = "VERIFIED"
	StatusAlreadyVerified   = "ALREADY_VERIFIED"
	StatusUnverified        = "UNVERIFIED"
	StatusAlreadyUnverified = "ALREADY_UNVERIFIED"
)

// UseCase casos de uso sobre dispositivos.
type UseCase struct {
	deviceRepo repository.DeviceRepository
	txRunner   TxRunner
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(deviceRepo repository.DeviceRepository, txRunner TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{
		deviceRepo: deviceRepo,
		txRunner:   txRunner,
		log:        log.Component("device"),
		now:        time.Now,
	}
}

// FindOrCreate devuelve el dispositivo del usuario o lo crea sin verificar.
// Si el dispositivo existe y es de otro usuario devuelve ErrDeviceOwnership.
func (uc *UseCase) FindOrCreate(ctx context.Context, userID, deviceID, description string) (*entity.Device, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, domain.ValidationError("deviceId es obligatorio")
	}
	d, err := uc.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if d != nil {
		if !d.BelongsTo(userID) {
			return nil, domain.ErrDeviceOwnership
		}
		return d, nil
	}

	now := uc.now()
	d = &entity.Device{
		ID:          uuid.New().String(),
		DeviceID:    deviceID,
		UserID:      userID,
		Description: strings.TrimSpace(description),
		Verified:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.deviceRepo.Create(ctx, d); err != nil {
		if !errors.Is(err, domain.ErrDeviceAlreadyRegistered) {
			return nil, err
		}
		// Otro request lo creó entre la lectura y el insert: releer y validar dueño.
		existing, getErr := uc.deviceRepo.GetByDeviceID(ctx, deviceID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil || !existing.BelongsTo(userID) {
			return nil, domain.ErrDeviceOwnership
		}
		return existing, nil
	}
	uc.log.Info().Str("device_id", deviceID).Str("user_id", userID).Msg("dispositivo registrado, pendiente de verificación")
	return d, nil
}

// Verify marca el dispositivo como verificado. Idempotente: si ya lo estaba devuelve ALREADY_VERIFIED.
func (uc *UseCase) Verify(ctx context.Context, deviceID string) (*dto.DeviceToggleResponse, error) {
	var out *dto.DeviceToggleResponse
	err := uc.txRunner.RunDevices(ctx, func(deviceRepo repository.DeviceRepository, _ repository.SessionRepository) error {
		d, err := deviceRepo.GetByDeviceIDForUpdate(ctx, deviceID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrDeviceNotFound
		}
		if d.Verified {
			out = &dto.DeviceToggleResponse{
				DeviceID: deviceID, Status: StatusAlreadyVerified, Verified: true,
				Message: "El dispositivo ya estaba verificado",
			}
			return nil
		}
		if err := deviceRepo.SetVerified(ctx, deviceID, true, uc.now()); err != nil {
			return err
		}
		out = &dto.DeviceToggleResponse{
			DeviceID: deviceID, Status: StatusVerified, Verified: true,
			Message: "Dispositivo verificado exitosamente",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("device_id", deviceID).Str("status", out.Status).Msg("verificación de dispositivo")
	return out, nil
}

// Unverify revoca la verificación y borra todas las sesiones del dispositivo en la misma
// transacción, con la fila del dispositivo bloqueada. Idempotente: ALREADY_UNVERIFIED.
func (uc *UseCase) Unverify(ctx context.Context, deviceID string) (*dto.DeviceToggleResponse, error) {
	var out *dto.DeviceToggleResponse
	err := uc.txRunner.RunDevices(ctx, func(deviceRepo repository.DeviceRepository, sessionRepo repository.SessionRepository) error {
		d, err := deviceRepo.GetByDeviceIDForUpdate(ctx, deviceID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrDeviceNotFound
		}
		if !d.Verified {
			out = &dto.DeviceToggleResponse{
				DeviceID: deviceID, Status: StatusAlreadyUnverified, Verified: false,
				Message: "El dispositivo ya estaba sin verificar",
			}
			return nil
		}
		if err := deviceRepo.SetVerified(ctx, deviceID, false, uc.now()); err != nil {
			return err
		}
		deleted, err := sessionRepo.DeleteAllForDevice(ctx, deviceID)
		if err != nil {
			return err
		}
		out = &dto.DeviceToggleResponse{
			DeviceID: deviceID, Status: StatusUnverified, Verified: false, SessionsDeleted: deleted,
			Message: "Verificación revocada; se cerraron las sesiones del dispositivo",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("device_id", deviceID).
		Str("status", out.Status).
		Int64("sessions_deleted", out.SessionsDeleted).
		Msg("revocación de dispositivo")
	return out, nil
}

// EnsureVerified exige que el dispositivo exista, sea del usuario y esté verificado.
// Un fallo de infraestructura se registra y se devuelve como ErrDeviceCheckFailed,
// nunca como "no verificado".
func (uc *UseCase) EnsureVerified(ctx context.Context, userID, deviceID string) error {
	if deviceID == "" {
		return domain.ErrDeviceNotVerified
	}
	d, err := uc.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		uc.log.Error().Err(err).Str("device_id", deviceID).Str("user_id", userID).Msg("no se pudo validar el dispositivo")
		return domain.ErrDeviceCheckFailed
	}
	if d == nil || !d.BelongsTo(userID) || !d.Verified {
		return domain.ErrDeviceNotVerified
	}
	return nil
}

// List lista dispositivos para el panel de administración, filtrando por estado.
func (uc *UseCase) List(ctx context.Context, req dto.DeviceListRequest) (*dto.DeviceListResponse, error) {
	req.DefaultPage()
	if req.Status == "" {
		req.Status = entity.DeviceStatusAll
	}
	if !entity.ValidDeviceStatus(req.Status) {
		return nil, domain.ValidationError("status debe ser all, pending o verified")
	}
	list, total, err := uc.deviceRepo.List(ctx, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeviceResponse, 0, len(list))
	for _, d := range list {
		items = append(items, dto.NewDeviceResponse(d))
	}
	return &dto.DeviceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Total: total},
	}, nil
}
