package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/ahorro-api/internal/application/analytics"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// DashboardHandler maneja el resumen de operación del panel de administración.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve clientes, saldo en custodia, dispositivos pendientes y
// los totales de depósitos y retiros del día y del mes en curso.
// GET /api/admin/analytics/summary
//
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}
