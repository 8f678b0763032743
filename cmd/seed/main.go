// Command seed creates the catalog tables and loads the built-in menu into
// postgres.
package main

import (
	"log/slog"
	"os"

	"github.com/pizzeria/storefront/config"
	"github.com/pizzeria/storefront/database"
	"github.com/pizzeria/storefront/logger"
	"github.com/pizzeria/storefront/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.PostgresDSN(), cfg.IsDevelopment())
	if err != nil {
		log.Error("connect", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		log.Error("migrate", slog.Any("error", err))
		os.Exit(1)
	}

	menu := models.NewStaticCatalog()
	categories, _ := menu.GetAllCategories()
	products, _ := menu.GetAllProducts()
	if err := database.Seed(db, categories, products); err != nil {
		log.Error("seed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("catalog seeded", slog.Int("categories", len(categories)), slog.Int("products", len(products)))
}
