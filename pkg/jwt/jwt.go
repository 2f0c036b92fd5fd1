package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. Se firman con secretos distintos y el claim typ impide usar uno por otro.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrTokenExpired el token era válido pero ya venció.
	ErrTokenExpired = errors.New("jwt: token expirado")
	// ErrTokenInvalid firma, algoritmo, emisor, audiencia o tipo incorrectos, o token malformado.
	ErrTokenInvalid = errors.New("jwt: token inválido")
)

// Config secretos y tiempos de vida de cada tipo de token.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AccessClaims claims del token de acceso. El middleware decide rol y dispositivo sin consultar la DB.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"` // CUSTOMER | ADMIN
	DeviceID string `json:"device_id"`
	Type     string `json:"typ"`
}

// RefreshClaims claims del refresh token. SessionID apunta a la fila de sesiones.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	DeviceID  string `json:"device_id"`
	SessionID string `json:"session_id"`
	Type      string `json:"typ"`
}

// Manager emite y valida tokens HS256.
type Manager struct {
	cfg Config
	now func() time.Time
}

// New valida la configuración y construye el manager.
func New(cfg Config) (*Manager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("jwt: los secretos de acceso y refresh deben ser distintos")
	}
	return &Manager{cfg: cfg, now: time.Now}, nil
}

// AccessTTL duración del token de acceso (para expires_in en las respuestas).
func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// RefreshTTL duración del refresh token; coincide con la expiración de la sesión.
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTTL }

func (m *Manager) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{m.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
}

// GenerateAccess firma un token de acceso para el usuario y dispositivo dados.
func (m *Manager) GenerateAccess(userID, email, role, deviceID string) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: m.registered(userID, m.cfg.AccessTTL),
		UserID:           userID,
		Email:            email,
		Role:             role,
		DeviceID:         deviceID,
		Type:             TypeAccess,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.AccessSecret))
}

// GenerateRefresh firma un refresh token ligado a una sesión. Cada llamada produce un token
// distinto (jti aleatorio) aunque los demás claims coincidan.
func (m *Manager) GenerateRefresh(userID, deviceID, sessionID string) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: m.registered(userID, m.cfg.RefreshTTL),
		UserID:           userID,
		DeviceID:         deviceID,
		SessionID:        sessionID,
		Type:             TypeRefresh,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.RefreshSecret))
}

// ParseAccess valida un token de acceso y devuelve sus claims.
func (m *Manager) ParseAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenString, m.cfg.AccessSecret, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeAccess || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefresh valida un refresh token y devuelve sus claims.
func (m *Manager) ParseRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, m.cfg.RefreshSecret, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh || claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *Manager) parse(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
