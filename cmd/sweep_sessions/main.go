// sweep_sessions borra periódicamente las sesiones de refresh vencidas.
//
// Uso: go run ./cmd/sweep_sessions [--interval 15m] [--once]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ahorro-api/pkg/config"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	interval := pflag.Duration("interval", 15*time.Minute, "frecuencia del barrido")
	once := pflag.Bool("once", false, "ejecutar un solo barrido y salir")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, App: cfg.App.Name}).Component("session_sweeper")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sessions := postgres.NewSessionRepository(pool)
	if *once {
		if err := sweep(ctx, sessions, log); err != nil {
			os.Exit(1)
		}
		return
	}

	log.Info().Dur("interval", *interval).Msg("barrido de sesiones iniciado")
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		_ = sweep(ctx, sessions, log)
		select {
		case <-ctx.Done():
			log.Info().Msg("barrido de sesiones detenido")
			return
		case <-ticker.C:
		}
	}
}

func sweep(ctx context.Context, sessions repository.SessionRepository, log *logger.Logger) error {
	n, err := sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("borrar sesiones vencidas")
		return err
	}
	log.Info().Int64("deleted", n).Msg("sesiones vencidas borradas")
	return nil
}
