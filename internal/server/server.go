// Package server exposes the bridge's HTTP surface: the commerce and pledge
// webhook endpoints and the manual issuance endpoint.
package server

import (
	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/gofiber/fiber/v2"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/internal/provision"
	"github.com/keybridge-io/license-bridge/internal/webhook"
)

// Server wires the fiber application to the bridge components.
type Server struct {
	app         *fiber.App
	router      *webhook.Router
	provisioner *provision.Provisioner
	config      *config.Config
	logger      log.Logger
}

// New creates the HTTP server and registers its routes.
func New(cfg *config.Config, router *webhook.Router, provisioner *provision.Provisioner, logger log.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "license-bridge",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:         app,
		router:      router,
		provisioner: provisioner,
		config:      cfg,
		logger:      logger,
	}

	group := app.Group("/license-bridge")
	group.Post("/webhooks", s.handleCommerceWebhook)
	group.Post("/patreon", s.handlePledgeWebhook)
	group.Post("/keygen/create", s.handleManualIssuance)

	return s
}

// App exposes the underlying fiber application (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Infof("license-bridge listening on %s", s.config.ListenAddr)

	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
