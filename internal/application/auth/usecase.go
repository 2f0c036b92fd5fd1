// Package auth orquesta registro, login, refresh y logout: verifica credenciales, consulta el
// estado del dispositivo y solo emite tokens para dispositivos verificados.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/pkg/jwt"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	msgDevicePending = "Dispositivo pendiente de verificación por un administrador"
	msgLoginOK       = "Inicio de sesión exitoso"
	msgRefreshOK     = "Token renovado exitosamente"
	msgLogoutOK      = "Sesión cerrada exitosamente"
	msgRegisterOK    = "Registro exitoso. El dispositivo debe ser verificado por un administrador antes de iniciar sesión"
)

// Config opciones del orquestador.
type Config struct {
	// RotateRefreshTokens emite un refresh token nuevo en cada refresh e invalida el anterior.
	RotateRefreshTokens bool
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	deviceRepo  repository.DeviceRepository
	sessionRepo repository.SessionRepository
	devices     DeviceService
	txRunner    TxRunner
	hasher      PasswordHasher
	tokens      TokenManager
	cfg         Config
	log         *logger.Logger
	now         func() time.Time

	// Sal y hash fijos para verificar contra algo cuando el email no existe.
	dummySalt string
	dummyHash string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	deviceRepo repository.DeviceRepository,
	sessionRepo repository.SessionRepository,
	devices DeviceService,
	txRunner TxRunner,
	hasher PasswordHasher,
	tokens TokenManager,
	cfg Config,
	log *logger.Logger,
) (*AuthUseCase, error) {
	salt, hash, err := hasher.Hash(uuid.New().String(), "")
	if err != nil {
		return nil, err
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		deviceRepo:  deviceRepo,
		sessionRepo: sessionRepo,
		devices:     devices,
		txRunner:    txRunner,
		hasher:      hasher,
		tokens:      tokens,
		cfg:         cfg,
		log:         log.Component("auth"),
		now:         time.Now,
		dummySalt:   salt,
		dummyHash:   hash,
	}, nil
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashToken SHA-256 hex del refresh token; es lo único que se guarda de él.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Register crea el cliente con su dispositivo (sin verificar) y su cuenta en saldo cero.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	deviceID := strings.TrimSpace(in.DeviceID)
	if err := validateRegister(email, in.Password, name, deviceID); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	salt, hash, err := uc.hasher.Hash(in.Password, "")
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         entity.RoleCustomer,
		PasswordSalt: salt,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	device := &entity.Device{
		ID:          uuid.New().String(),
		DeviceID:    deviceID,
		UserID:      user.ID,
		Description: strings.TrimSpace(in.DeviceDescription),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	account := &entity.Account{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.RunRegistration(ctx, func(
		userRepo repository.UserRepository,
		deviceRepo repository.DeviceRepository,
		accountRepo repository.AccountRepository,
	) error {
		taken, err := deviceRepo.GetByDeviceID(ctx, deviceID)
		if err != nil {
			return err
		}
		if taken != nil {
			return domain.ErrDeviceAlreadyRegistered
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		if err := deviceRepo.Create(ctx, device); err != nil {
			return err
		}
		return accountRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("device_id", deviceID).Msg("cliente registrado")
	return &dto.RegisterResponse{
		User:          dto.NewUserResponse(user),
		Device:        dto.NewDeviceResponse(device),
		DevicePending: true,
		Message:       msgRegisterOK,
	}, nil
}

// Login autentica a un cliente.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	return uc.login(ctx, in, entity.RoleCustomer)
}

// AdminLogin autentica a un administrador. Aplica la misma regla de dispositivo verificado.
func (uc *AuthUseCase) AdminLogin(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	return uc.login(ctx, in, entity.RoleAdmin)
}

func (uc *AuthUseCase) login(ctx context.Context, in dto.LoginRequest, role string) (*dto.LoginResponse, error) {
	email := NormalizeEmail(in.Email)
	deviceID := strings.TrimSpace(in.DeviceID)
	if email == "" || in.Password == "" || deviceID == "" {
		return nil, domain.ValidationError("email, password y deviceId son obligatorios")
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Mismo costo que una verificación real: no revelar si el email existe.
		uc.hasher.Verify(in.Password, uc.dummySalt, uc.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(in.Password, user.PasswordSalt, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Role != role {
		return nil, domain.ErrRoleMismatch
	}

	device, err := uc.devices.FindOrCreate(ctx, user.ID, deviceID, in.DeviceDescription)
	if err != nil {
		return nil, err
	}
	if !device.Verified {
		uc.log.Info().Str("user_id", user.ID).Str("device_id", deviceID).Msg("login con dispositivo pendiente")
		return pendingResponse(deviceID), nil
	}

	pair, err := uc.openSession(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		// Revocado entre la lectura y la apertura de la sesión.
		return pendingResponse(deviceID), nil
	}

	resp := dto.NewUserResponse(user)
	uc.log.Info().Str("user_id", user.ID).Str("device_id", deviceID).Str("role", role).Msg("login exitoso")
	return &dto.LoginResponse{User: &resp, Tokens: pair, Message: msgLoginOK}, nil
}

// openSession emite los tokens y persiste la sesión con el dispositivo bloqueado en modo
// compartido. Devuelve nil si el dispositivo dejó de estar verificado.
func (uc *AuthUseCase) openSession(ctx context.Context, user *entity.User, deviceID string) (*dto.TokenPair, error) {
	var pair *dto.TokenPair
	err := uc.txRunner.RunDevices(ctx, func(deviceRepo repository.DeviceRepository, sessionRepo repository.SessionRepository) error {
		d, err := deviceRepo.GetByDeviceIDForShare(ctx, deviceID)
		if err != nil {
			return err
		}
		if d == nil || !d.Verified || !d.BelongsTo(user.ID) {
			return nil
		}

		sessionID := uuid.New().String()
		refresh, err := uc.tokens.GenerateRefresh(user.ID, deviceID, sessionID)
		if err != nil {
			return err
		}
		access, err := uc.tokens.GenerateAccess(user.ID, user.Email, user.Role, deviceID)
		if err != nil {
			return err
		}
		now := uc.now()
		err = sessionRepo.Create(ctx, &entity.Session{
			ID:             sessionID,
			UserID:         user.ID,
			DeviceID:       deviceID,
			TokenHash:      HashToken(refresh),
			ExpiresAt:      now.Add(uc.tokens.RefreshTTL()),
			LastActivityAt: now,
			CreatedAt:      now,
		})
		if err != nil {
			return err
		}
		pair = &dto.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    int(uc.tokens.AccessTTL().Seconds()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh renueva el token de acceso de un cliente.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	return uc.refresh(ctx, refreshToken, entity.RoleCustomer)
}

// AdminRefresh renueva el token de acceso de un administrador.
func (uc *AuthUseCase) AdminRefresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	return uc.refresh(ctx, refreshToken, entity.RoleAdmin)
}

func (uc *AuthUseCase) refresh(ctx context.Context, refreshToken, role string) (*dto.RefreshResponse, error) {
	claims, err := uc.tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidSession
	}
	if user.Role != role {
		return nil, domain.ErrRoleMismatch
	}

	var (
		out     *dto.RefreshResponse
		expired bool
	)
	err = uc.txRunner.RunDevices(ctx, func(deviceRepo repository.DeviceRepository, sessionRepo repository.SessionRepository) error {
		d, err := deviceRepo.GetByDeviceIDForShare(ctx, claims.DeviceID)
		if err != nil {
			return err
		}
		if d == nil || !d.Verified || !d.BelongsTo(claims.UserID) {
			return domain.ErrDeviceRevoked
		}

		s, err := sessionRepo.FindByHashForUpdate(ctx, HashToken(refreshToken), claims.UserID, claims.DeviceID)
		if err != nil {
			return err
		}
		if s == nil || s.ID != claims.SessionID {
			return domain.ErrInvalidSession
		}
		now := uc.now()
		if s.IsExpired(now) {
			// El borrado debe confirmarse: se reporta el error después del commit.
			expired = true
			return sessionRepo.DeleteByID(ctx, s.ID)
		}

		access, err := uc.tokens.GenerateAccess(user.ID, user.Email, user.Role, claims.DeviceID)
		if err != nil {
			return err
		}
		next := refreshToken
		if uc.cfg.RotateRefreshTokens {
			next, err = uc.tokens.GenerateRefresh(user.ID, claims.DeviceID, s.ID)
			if err != nil {
				return err
			}
			if err := sessionRepo.Rotate(ctx, s.ID, HashToken(next), now); err != nil {
				return err
			}
		} else if err := sessionRepo.Touch(ctx, s.ID, now); err != nil {
			return err
		}
		out = &dto.RefreshResponse{AccessToken: access, RefreshToken: next, Message: msgRefreshOK}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDeviceRevoked) || errors.Is(err, domain.ErrInvalidSession) {
			uc.log.Warn().Str("user_id", claims.UserID).Str("device_id", claims.DeviceID).Err(err).Msg("refresh rechazado")
		}
		return nil, err
	}
	if expired {
		return nil, domain.ErrSessionExpired
	}
	return out, nil
}

// Logout cierra todas las sesiones del usuario en el dispositivo. Repetirlo devuelve 0 sesiones.
func (uc *AuthUseCase) Logout(ctx context.Context, userID, deviceID string) (*dto.LogoutResponse, error) {
	d, err := uc.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.BelongsTo(userID) {
		return nil, domain.ErrDeviceOwnership
	}
	n, err := uc.sessionRepo.DeleteAllForUserDevice(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("device_id", deviceID).Int64("sessions_deleted", n).Msg("logout")
	return &dto.LogoutResponse{Message: msgLogoutOK, SessionsDeleted: n}, nil
}

func pendingResponse(deviceID string) *dto.LoginResponse {
	return &dto.LoginResponse{DevicePending: true, DeviceID: deviceID, Message: msgDevicePending}
}

func validateRegister(email, password, name, deviceID string) error {
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return domain.ValidationError("email inválido")
	}
	if len(password) < 8 {
		return domain.ValidationError("la contraseña debe tener al menos 8 caracteres")
	}
	if name == "" || len(name) > 200 {
		return domain.ValidationError("el nombre es obligatorio (máximo 200 caracteres)")
	}
	if deviceID == "" || len(deviceID) > 255 {
		return domain.ValidationError("deviceId es obligatorio (máximo 255 caracteres)")
	}
	return nil
}
