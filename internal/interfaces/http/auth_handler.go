package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ahorro-api/internal/application/auth"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// AuthHandler maneja registro, login, refresh y logout de clientes y administradores.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, deviceId"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión (cliente)
// @Description  Con dispositivo pendiente responde 202 y devicePending=true, sin tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, deviceId"
// @Success      200   {object}  dto.LoginResponse
// @Success      202   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(loginStatus(out)).JSON(out)
}

// AdminLogin godoc
// @Summary      Iniciar sesión (administrador)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, deviceId"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/auth/login [post]
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AdminLogin(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(loginStatus(out)).JSON(out)
}

// Refresh godoc
// @Summary      Renovar token de acceso (cliente)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refreshToken"
// @Success      200   {object}  dto.RefreshResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil || in.RefreshToken == "" {
		return badBody(c)
	}
	out, err := h.uc.Refresh(c.Context(), in.RefreshToken)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AdminRefresh godoc
// @Summary      Renovar token de acceso (administrador)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refreshToken"
// @Success      200   {object}  dto.RefreshResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/auth/refresh [post]
func (h *AuthHandler) AdminRefresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil || in.RefreshToken == "" {
		return badBody(c)
	}
	out, err := h.uc.AdminRefresh(c.Context(), in.RefreshToken)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión en el dispositivo del token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.LogoutResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	out, err := h.uc.Logout(c.Context(), GetUserID(c), GetDeviceID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func loginStatus(out *dto.LoginResponse) int {
	if out.DevicePending {
		return fiber.StatusAccepted
	}
	return fiber.StatusOK
}
