// seed crea las categorías por defecto y gastos de ejemplo de los últimos días en PostgreSQL.
//
// Uso: go run ./cmd/seed [-days 90]
// Todo se inserta en una única transacción.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/application/seed"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
	"github.com/jhoicas/expense-tracker-api/internal/infrastructure/postgres"
	"github.com/jhoicas/expense-tracker-api/pkg/config"
	"github.com/jhoicas/expense-tracker-api/pkg/logger"
)

func main() {
	days := flag.Int("days", seed.DefaultDays, "días hacia atrás con gastos de ejemplo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var res seed.Result
	err = postgres.NewTxRunner(pool).Run(ctx, func(categories repository.CategoryRepository, expenses repository.ExpenseRepository) error {
		var err error
		res, err = seed.Run(ctx, categories, expenses, seed.Options{Days: *days})
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("seed abortado, no se insertó nada")
		pool.Close()
		os.Exit(1)
	}

	log.Info().
		Int("categories", res.Categories).
		Int("categories_created", res.CategoriesCreated).
		Int("expenses", res.Expenses).
		Msg("seed completado")
}
