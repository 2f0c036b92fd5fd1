package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/ahorro-api/internal/application/analytics"
	"github.com/jhoicas/ahorro-api/internal/application/auth"
	"github.com/jhoicas/ahorro-api/internal/application/customer"
	"github.com/jhoicas/ahorro-api/internal/application/device"
	"github.com/jhoicas/ahorro-api/internal/application/ledger"
	"github.com/jhoicas/ahorro-api/internal/application/statement"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ahorro-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ahorro-api/internal/interfaces/http"
	"github.com/jhoicas/ahorro-api/pkg/config"
	"github.com/jhoicas/ahorro-api/pkg/jwt"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/jhoicas/ahorro-api/pkg/password"
)

// txRunner une las transacciones que necesitan los casos de uso.
type txRunner interface {
	ledger.TxRunner
	device.TxRunner
	auth.TxRunner
}

// storage repositorios y transacciones del backend elegido en APP_STORAGE.
type storage struct {
	users        repository.UserRepository
	devices      repository.DeviceRepository
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	sessions     repository.SessionRepository
	analytics    repository.AnalyticsRepository
	tx           txRunner
	health       httpRouter.Pinger
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	tokens, err := jwt.New(jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar tokens")
	}
	hasher := password.New(password.Config{
		SaltBytes:  cfg.Password.SaltBytes,
		Iterations: cfg.Password.Iterations,
		KeyLength:  cfg.Password.KeyLength,
	})

	deviceUC := device.NewUseCase(store.devices, store.tx, log)
	ledgerUC := ledger.NewUseCase(store.accounts, store.transactions, store.tx, ledger.Config{
		MaxAmount: cfg.Ledger.MaxAmount,
		Locale:    cfg.App.Locale,
	}, log)
	authUC, err := auth.NewAuthUseCase(
		store.users, store.devices, store.sessions,
		deviceUC, store.tx, hasher, tokens,
		auth.Config{RotateRefreshTokens: cfg.Auth.RotateRefreshTokens},
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar autenticación")
	}

	// PDF: extracto de cuenta
	pdfGenerator := infrapdf.NewMarotoStatementGenerator(cfg.App.Name, cfg.App.Locale)
	statementUC := statement.NewUseCase(store.users, store.accounts, store.transactions, pdfGenerator)
	customerUC := customer.NewUseCase(store.users, store.accounts, store.devices)
	dashboardUC := appanalytics.NewDashboardUseCase(store.analytics)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		LedgerUC:    ledgerUC,
		StatementUC: statementUC,
		DeviceUC:    deviceUC,
		CustomerUC:  customerUC,
		DashboardUC: dashboardUC,
		Tokens:      tokens,
		Health:      store.health,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta a PostgreSQL y aplica las migraciones, o arma el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			users:        memory.NewUserRepository(s),
			devices:      memory.NewDeviceRepository(s),
			accounts:     memory.NewAccountRepository(s),
			transactions: memory.NewTransactionRepository(s),
			sessions:     memory.NewSessionRepository(s),
			analytics:    memory.NewAnalyticsRepository(s),
			tx:           memory.NewTxRunner(s),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("migraciones aplicadas")

	return &storage{
		users:        postgres.NewUserRepository(pool),
		devices:      postgres.NewDeviceRepository(pool),
		accounts:     postgres.NewAccountRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		sessions:     postgres.NewSessionRepository(pool),
		analytics:    postgres.NewAnalyticsRepository(pool),
		tx:           postgres.NewTxRunner(pool),
		health:       pool,
		close:        pool.Close,
	}, nil
}
