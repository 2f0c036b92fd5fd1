// seed_admin crea el primer usuario ADMIN (y opcionalmente su dispositivo ya verificado).
// El registro público solo crea clientes, así que el primer administrador sale de aquí.
//
// Uso: go run ./cmd/seed_admin --email admin@banco.co --password '...' --name Admin [--device-id pc-oficina]
// Lee la conexión a PostgreSQL de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ahorro-api/internal/application/auth"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ahorro-api/pkg/config"
	"github.com/jhoicas/ahorro-api/pkg/password"
	"github.com/spf13/pflag"
)

func main() {
	email := pflag.String("email", "", "email del administrador")
	pass := pflag.String("password", "", "contraseña (mínimo 8 caracteres)")
	name := pflag.String("name", "Administrador", "nombre visible")
	deviceID := pflag.String("device-id", "", "dispositivo a registrar ya verificado (opcional)")
	pflag.Parse()

	if strings.TrimSpace(*email) == "" || len(*pass) < 8 {
		fmt.Fprintln(os.Stderr, "--email y --password (mínimo 8 caracteres) son obligatorios")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	hasher := password.New(password.Config{
		SaltBytes:  cfg.Password.SaltBytes,
		Iterations: cfg.Password.Iterations,
		KeyLength:  cfg.Password.KeyLength,
	})
	salt, hash, err := hasher.Hash(*pass, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Derivar contraseña: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        auth.NormalizeEmail(*email),
		Name:         strings.TrimSpace(*name),
		Role:         entity.RoleAdmin,
		PasswordSalt: salt,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Usuario y dispositivo en la misma transacción: o quedan ambos o ninguno.
	err = postgres.NewTxRunner(pool).RunRegistration(ctx, func(
		userRepo repository.UserRepository,
		deviceRepo repository.DeviceRepository,
		_ repository.AccountRepository,
	) error {
		if err := userRepo.Create(ctx, admin); err != nil {
			return err
		}
		if *deviceID == "" {
			return nil
		}
		return deviceRepo.Create(ctx, &entity.Device{
			ID:          uuid.New().String(),
			DeviceID:    strings.TrimSpace(*deviceID),
			UserID:      admin.ID,
			Description: "registrado por seed_admin",
			Verified:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Administrador %s creado (id %s)\n", admin.Email, admin.ID)
	if *deviceID != "" {
		fmt.Printf("Dispositivo %s registrado y verificado\n", *deviceID)
	}
}
