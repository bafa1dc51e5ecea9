package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	bench "phlab/internal/bench"
	ph "phlab/internal/calc/ph"
	config "phlab/internal/config"
	logging "phlab/internal/logging"
	repo "phlab/internal/repo"
	server "phlab/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	logrus.WithFields(cfg.LogrusFields()).Info("config loaded")

	tables, err := ph.LoadTables(cfg.TablesPath)
	if err != nil {
		logrus.Fatalf("failed to load reference tables: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"acids":          len(tables.Acids),
		"bases":          len(tables.Bases),
		"concentrations": len(tables.Concentrations),
	}).Info("reference tables loaded")

	db, err := repo.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("database unavailable: %v", err)
	}
	defer db.Close()

	handler := server.NewRouter(server.Deps{
		Config:  cfg,
		Tables:  tables,
		Users:   repo.NewUserRepository(db),
		Benches: bench.NewStore(),
	})

	if err := server.Run(ctx, cfg, handler); err != nil {
		logrus.Errorf("server error: %v", err)
		db.Close()
		os.Exit(1)
	}
	logrus.Info("server stopped")
}
