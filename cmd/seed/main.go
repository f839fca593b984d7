// seed puebla la base con datos de demostración: tres tiendas con distintas
// capacidades, un catálogo pequeño y un empleado admin (admin@stockfifo.local /
// la password de SEED_ADMIN_PASSWORD, por defecto "cambiame123").
//
// Uso: go run ./cmd/seed
// Idempotente: todos los INSERT llevan ON CONFLICT DO NOTHING.
package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockfifo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockfifo-api/pkg/config"
	"github.com/jhoicas/stockfifo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	now := time.Now()

	stores := []struct {
		id, name, location, capability string
	}{
		{"6f1a2b3c-0001-4000-8000-000000000001", "Bodega Central", "Carrera 15 #80-45", "both"},
		{"6f1a2b3c-0002-4000-8000-000000000002", "Barra Norte", "Calle 93 #11-27", "sell-only"},
		{"6f1a2b3c-0003-4000-8000-000000000003", "Centro de Acopio", "Autopista Sur km 14", "receive-only"},
	}
	for _, s := range stores {
		_, err := pool.Exec(ctx, `
			INSERT INTO stores (id, name, location, capability, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (id) DO NOTHING`,
			s.id, s.name, s.location, s.capability, now)
		if err != nil {
			log.Fatal().Err(err).Str("store", s.name).Msg("seed tienda")
		}
	}

	items := []struct {
		id, name, brand, category, color, barcode string
	}{
		{"7e1a2b3c-0001-4000-8000-000000000001", "Cerveza artesanal IPA 330ml", "La Santa", "bebidas", "#d97b29", "7701234000011"},
		{"7e1a2b3c-0002-4000-8000-000000000002", "Queso campesino 500g", "El Recreo", "lácteos", "#f2e6c9", "7701234000028"},
		{"7e1a2b3c-0003-4000-8000-000000000003", "Jugo de naranja 1L", "Frutal", "bebidas", "#f5a623", "7701234000035"},
	}
	for _, i := range items {
		_, err := pool.Exec(ctx, `
			INSERT INTO items (id, name, brand, category, color_code, barcode, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			ON CONFLICT (id) DO NOTHING`,
			i.id, i.name, i.brand, i.category, i.color, i.barcode, now)
		if err != nil {
			log.Fatal().Err(err).Str("item", i.name).Msg("seed producto")
		}
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "cambiame123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de password")
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO staff (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'admin', 'active', $5, $5)
		ON CONFLICT (email) DO NOTHING`,
		"8a1a2b3c-0001-4000-8000-000000000001", "Administrador", "admin@stockfifo.local", string(hash), now)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	log.Info().Msg("datos de demostración listos")
}
