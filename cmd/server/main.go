package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/kendoworks/taller/internal/config"
	"github.com/kendoworks/taller/internal/db"
	"github.com/kendoworks/taller/internal/handlers"
	"github.com/kendoworks/taller/internal/repo"
	"github.com/kendoworks/taller/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file (overrides env)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogFormat)

	database, err := db.Connect(cfg)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(cfg.DatabaseURL()); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(context.Background(), database); err != nil {
		slog.Error("seed database", "error", err)
		os.Exit(1)
	}

	if cfg.DigestCron != "" {
		if err := scheduler.Run(cfg.DigestCron, repo.NewRequestRepo(database)); err != nil {
			slog.Error("start scheduler", "error", err)
			os.Exit(1)
		}
	}

	r := handlers.NewRouter(cfg, database)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("server listening", "addr", addr, "tls", true)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("server listening", "addr", addr, "tls", false)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
