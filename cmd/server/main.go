package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/chatwire/backend/internal/collab"
	"github.com/chatwire/backend/internal/infrastructure/config"
	"github.com/chatwire/backend/internal/infrastructure/logging"
	"github.com/chatwire/backend/internal/infrastructure/monitoring"
	"github.com/chatwire/backend/internal/notify"
	"github.com/chatwire/backend/internal/server"
)

func main() {
	port := flag.Int("port", 0, "Listen port override (same precedence as PORT)")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault().Fatal("failed to load config", zap.Error(err))
	}
	if *port > 0 {
		cfg.Server.PortOverride = *port
	}
	if *dev {
		cfg.Logging.Development = true
	}

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			logging.NewDefault().Fatal("failed to build logger", zap.Error(err))
		}
	}

	notifier := notify.New(cfg.Webhook, cfg.Server.PublicURL, logger)

	srv, err := server.New(server.Options{
		Config:       cfg,
		Logger:       logger,
		Metrics:      monitoring.NewMetrics(),
		Notifier:     notifier,
		FileProvider: collab.DisabledFileProvider(),
		Persistence:  collab.NopPersistence{},
		Sessions:     collab.NopSessionMonitor{},
		Events:       collab.NopEventManager{},
		CrashHook:    collab.NopCrashHook{},
	})
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
