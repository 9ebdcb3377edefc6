package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/namematch/api/mcp"
)

// Server is the API server for managing collections and searching names.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server with the REST routes and the MCP
// endpoint mounted at /mcp.
func NewServer(config Config, logger *slog.Logger) (*Server, error) {
	if config.NewMatcher == nil {
		return nil, errors.New("matcher factory is required")
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		NewMatcher: config.NewMatcher,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Put("/collections/:name", s.handleGetCollection)
	v1.Delete("/collections/:name", s.handleDeleteCollection)
	v1.Post("/collections/:name/names", s.handleAddNames)
	v1.Get("/collections/:name/search", s.handleSearchEndpoint)

	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
