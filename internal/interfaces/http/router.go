package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/ahorro-api/internal/application/analytics"
	"github.com/jhoicas/ahorro-api/internal/application/auth"
	"github.com/jhoicas/ahorro-api/internal/application/customer"
	"github.com/jhoicas/ahorro-api/internal/application/device"
	"github.com/jhoicas/ahorro-api/internal/application/ledger"
	"github.com/jhoicas/ahorro-api/internal/application/statement"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/pkg/jwt"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// Pinger comprueba una dependencia para /health (ej. *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	LedgerUC    *ledger.UseCase
	StatementUC *statement.UseCase
	DeviceUC    *device.UseCase
	CustomerUC  *customer.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	Tokens      *jwt.Manager
	Health      Pinger // opcional
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Use(RequestLogger(log.Component("http")))
	app.Get("/health", healthHandler(deps.Health))

	api := app.Group("/api")
	bearer := AuthMiddleware(deps.Tokens)

	// Auth de clientes (público salvo logout)
	authHandler := NewAuthHandler(deps.AuthUC, log.Component("auth"))
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", bearer, authHandler.Logout)

	// Cuenta: Bearer + rol CUSTOMER + dispositivo verificado en cada petición
	accountHandler := NewAccountHandler(deps.LedgerUC, deps.StatementUC, log.Component("account"))
	account := api.Group("/account",
		bearer,
		RequireRole(entity.RoleCustomer),
		RequireVerifiedDevice(deps.DeviceUC, log.Component("device_gate")),
	)
	account.Get("/balance", accountHandler.Balance)
	account.Post("/deposit", accountHandler.Deposit)
	account.Post("/withdraw", accountHandler.Withdraw)
	account.Get("/transactions", accountHandler.Transactions)
	account.Get("/statement.pdf", accountHandler.Statement)

	// Administración
	admin := api.Group("/admin")
	adminAuth := admin.Group("/auth")
	adminAuth.Post("/login", authHandler.AdminLogin)
	adminAuth.Post("/refresh", authHandler.AdminRefresh)

	protected := admin.Group("/",
		bearer,
		RequireRole(entity.RoleAdmin),
		RequireVerifiedDevice(deps.DeviceUC, log.Component("device_gate")),
	)

	deviceHandler := NewDeviceHandler(deps.DeviceUC, log.Component("devices"))
	protected.Get("/devices", deviceHandler.List)
	protected.Post("/devices/:deviceId/verify", deviceHandler.Verify)
	protected.Post("/devices/:deviceId/unverify", deviceHandler.Unverify)

	customerHandler := NewCustomerHandler(deps.CustomerUC, log.Component("customers"))
	protected.Get("/customers/:id", customerHandler.GetByID)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log.Component("analytics"))
	protected.Get("/analytics/summary", dashboardHandler.GetSummary)
}

func healthHandler(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p != nil {
			if err := p.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
