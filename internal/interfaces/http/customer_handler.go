package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/jhoicas/ahorro-api/internal/application/customer"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// CustomerHandler consulta de clientes para administración.
type CustomerHandler struct {
	uc  *customer.UseCase
	log *logger.Logger
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customer.UseCase, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{uc: uc, log: log}
}

// GetByID godoc
// @Summary      Detalle de cliente
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.CustomerDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id := utils.CopyString(c.Params("id"))
	// users.id es UUID: un id mal formado no puede existir
	if _, err := uuid.Parse(id); err != nil {
		return respondError(c, h.log, domain.ErrUserNotFound)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
