package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/LerianStudio/lib-commons/commons/zap"
	"github.com/joho/godotenv"
	"github.com/keybridge-io/license-bridge/internal/commerce"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/internal/keygen"
	"github.com/keybridge-io/license-bridge/internal/notify"
	"github.com/keybridge-io/license-bridge/internal/provision"
	"github.com/keybridge-io/license-bridge/internal/server"
	"github.com/keybridge-io/license-bridge/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	logger := zap.InitializeLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	keygenClient := keygen.New(cfg, nil, logger)
	commerceClient := commerce.New(cfg, nil, logger)
	provisioner := provision.New(keygenClient, logger)
	mailer := notify.NewMailer(cfg, logger)
	router := webhook.NewRouter(commerceClient, keygenClient, provisioner, mailer, cfg, logger)

	srv := server.New(cfg, router, provisioner, logger)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")

		if err := srv.Shutdown(); err != nil {
			logger.Errorf("shutdown error: %v", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
