package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/application/ledger"
	"github.com/jhoicas/ahorro-api/internal/application/statement"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// AccountHandler saldo, depósitos, retiros, historial y extracto del cliente autenticado.
type AccountHandler struct {
	ledger    *ledger.UseCase
	statement *statement.UseCase
	log       *logger.Logger
}

// NewAccountHandler construye el handler de cuenta.
func NewAccountHandler(ledgerUC *ledger.UseCase, statementUC *statement.UseCase, log *logger.Logger) *AccountHandler {
	return &AccountHandler{ledger: ledgerUC, statement: statementUC, log: log}
}

// Balance godoc
// @Summary      Consultar saldo
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.BalanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/account/balance [get]
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	out, err := h.ledger.GetBalance(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deposit godoc
// @Summary      Depositar
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.MovementRequest  true  "amount, description"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/account/deposit [post]
func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Deposit(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Withdraw godoc
// @Summary      Retirar
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.MovementRequest  true  "amount, description"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_FUNDS"
// @Router       /api/account/withdraw [post]
func (h *AccountHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Withdraw(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transactions godoc
// @Summary      Historial de movimientos
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/account/transactions [get]
func (h *AccountHandler) Transactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.ledger.ListTransactions(c.Context(), GetUserID(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Descargar extracto en PDF
// @Tags         account
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/account/statement.pdf [get]
func (h *AccountHandler) Statement(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.statement.Download(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
