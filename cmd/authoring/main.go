package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"precast-bim/internal/authoring/handlers"
	"precast-bim/internal/authoring/repository"
	"precast-bim/internal/authoring/service"
	"precast-bim/internal/bim"
	"precast-bim/internal/bim/geometry"
	"precast-bim/internal/common/config"
	"precast-bim/internal/common/logging"
	"precast-bim/internal/common/middleware"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Authoring Service
// ============================================================

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	coreMode, err := geometry.ParseCoreMode(cfg.CoreMode)
	if err != nil {
		logger.Fatalw("invalid CORE_MODE", "value", cfg.CoreMode, "error", err)
	}

	db, err := repository.OpenSQLite(cfg.CatalogDBPath)
	if err != nil {
		logger.Fatalw("open db", "path", cfg.CatalogDBPath, "error", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		logger.Fatalw("init db", "error", err)
	}

	svc := service.New(service.NewFileStorage(cfg.OutputDir), repo, logger,
		service.WithCoreMode(coreMode),
		service.WithNames(bim.Names{
			Project:  cfg.ProjectName,
			Site:     cfg.SiteName,
			Building: cfg.BuildingName,
			Storey:   cfg.StoreyName,
		}),
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Authoring Service",
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Routes
	// ============================================================

	handlers.NewHealthHandler(repo).Routes(app)
	handlers.NewAuthoringHandler(svc, logger).Routes(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Infow("starting authoring service", "addr", addr, "env", cfg.Environment,
		"output_dir", cfg.OutputDir, "core_mode", coreMode.String())

	if err := app.Listen(addr); err != nil {
		logger.Fatalw("failed to start server", "error", err)
	}
}
