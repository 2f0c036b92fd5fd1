package domain

import "errors"

// Categorías de error de dominio (sin dependencias externas). La capa HTTP traduce
// cada categoría a un código de estado; los casos de uso nunca conocen HTTP.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnavailable  = errors.New("servicio no disponible")
)

// Error es un error de dominio etiquetado: Kind es la categoría, Code un identificador
// estable para clientes y Message el texto para mostrar.
type Error struct {
	Kind    error
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap expone la categoría para errors.Is(err, domain.ErrConflict).
func (e *Error) Unwrap() error { return e.Kind }

// Is compara por código, así errors.Is(err, domain.ErrInsufficientFunds) funciona aunque el
// mensaje haya sido personalizado con WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage devuelve una copia con otro mensaje y el mismo código.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

func newError(kind error, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Errores de autenticación.
var (
	ErrEmailAlreadyExists      = newError(ErrConflict, "EMAIL_EXISTS", "el email ya está registrado")
	ErrDeviceAlreadyRegistered = newError(ErrConflict, "DEVICE_ALREADY_REGISTERED", "el dispositivo ya está registrado")
	ErrInvalidCredentials      = newError(ErrUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas")
	ErrRoleMismatch            = newError(ErrForbidden, "ROLE_MISMATCH", "el rol del usuario no permite este acceso")
	ErrTokenInvalid            = newError(ErrUnauthorized, "INVALID_TOKEN", "token inválido")
	ErrTokenExpired            = newError(ErrUnauthorized, "TOKEN_EXPIRED", "token expirado")
	ErrInvalidSession          = newError(ErrUnauthorized, "INVALID_SESSION", "sesión inválida")
	ErrSessionExpired          = newError(ErrUnauthorized, "SESSION_EXPIRED", "la sesión expiró, inicie sesión de nuevo")
	ErrUserNotFound            = newError(ErrNotFound, "USER_NOT_FOUND", "usuario no encontrado")
)

// Errores de dispositivos.
var (
	ErrDeviceOwnership   = newError(ErrUnauthorized, "DEVICE_OWNERSHIP", "el dispositivo no pertenece al usuario")
	ErrDeviceNotFound    = newError(ErrNotFound, "DEVICE_NOT_FOUND", "dispositivo no encontrado")
	ErrDeviceNotVerified = newError(ErrForbidden, "DEVICE_NOT_VERIFIED", "el dispositivo no está verificado")
	ErrDeviceRevoked     = newError(ErrForbidden, "DEVICE_REVOKED", "el dispositivo fue revocado o no está verificado")
	ErrDeviceCheckFailed = newError(ErrUnavailable, "DEVICE_CHECK_UNAVAILABLE", "no fue posible validar el dispositivo, intente más tarde")
)

// Errores del motor de saldos.
var (
	ErrAccountNotFound   = newError(ErrNotFound, "ACCOUNT_NOT_FOUND", "cuenta no encontrada")
	ErrInsufficientFunds = newError(ErrConflict, "INSUFFICIENT_FUNDS", "fondos insuficientes")
	ErrInvalidAmount     = newError(ErrInvalidInput, "INVALID_AMOUNT", "monto inválido")
)

// ValidationError crea un error de entrada con código VALIDATION_ERROR.
func ValidationError(msg string) *Error {
	return newError(ErrInvalidInput, "VALIDATION_ERROR", msg)
}
