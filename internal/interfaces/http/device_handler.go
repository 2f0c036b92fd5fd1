package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jhoicas/ahorro-api/internal/application/device"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// DeviceHandler administración de dispositivos (solo ADMIN).
type DeviceHandler struct {
	uc  *device.UseCase
	log *logger.Logger
}

// NewDeviceHandler construye el handler de dispositivos.
func NewDeviceHandler(uc *device.UseCase, log *logger.Logger) *DeviceHandler {
	return &DeviceHandler{uc: uc, log: log}
}

// Verify godoc
// @Summary      Verificar dispositivo
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        deviceId  path  string  true  "identificador del dispositivo"
// @Success      200  {object}  dto.DeviceToggleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/devices/{deviceId}/verify [post]
func (h *DeviceHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.Verify(c.Context(), utils.CopyString(c.Params("deviceId")))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Unverify godoc
// @Summary      Revocar verificación de dispositivo (cierra sus sesiones)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        deviceId  path  string  true  "identificador del dispositivo"
// @Success      200  {object}  dto.DeviceToggleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/devices/{deviceId}/unverify [post]
func (h *DeviceHandler) Unverify(c *fiber.Ctx) error {
	out, err := h.uc.Unverify(c.Context(), utils.CopyString(c.Params("deviceId")))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar dispositivos
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "all | pending | verified"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.DeviceListResponse
// @Router       /api/admin/devices [get]
func (h *DeviceHandler) List(c *fiber.Ctx) error {
	var req dto.DeviceListRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
