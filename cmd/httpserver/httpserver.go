// Package httpserver manages server creation and api routing.
package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/safebank/internal/accountdelivery"
	"github.com/go-petr/safebank/internal/middleware"
	"github.com/go-petr/safebank/pkg/configpkg"
)

// Server holds handlers router and configuration.
type Server struct {
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type routing account requests to the ledger.
func New(ledger accountdelivery.Service, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if err := accountdelivery.RegisterValidations(); err != nil {
		return nil, fmt.Errorf("cannot register account validators: %w", err)
	}

	accountHandler := accountdelivery.NewHandler(ledger)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	accountHandler.Register(engine)

	server := &Server{
		Engine: engine,
		Config: config,
	}

	return server, nil
}
