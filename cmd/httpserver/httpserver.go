// Package httpserver manages server creation and api routing.
package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/abc-bank/internal/accountdelivery"
	"github.com/go-petr/abc-bank/internal/accountservice"
	"github.com/go-petr/abc-bank/internal/middleware"
	"github.com/go-petr/abc-bank/internal/userdelivery"
	"github.com/go-petr/abc-bank/pkg/configpkg"
	"github.com/go-petr/abc-bank/pkg/moneypkg"
	"github.com/go-petr/abc-bank/pkg/tokenpkg"
)

// Server holds the ledger service, handlers router, metrics and configuration.
type Server struct {
	Service *accountservice.Service
	Engine  *gin.Engine
	Metrics *middleware.Metrics
	Config  configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated handlers and routes over the given ledger.
func New(service *accountservice.Service, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := tokenpkg.NewMaker(config.TokenMaker, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", moneypkg.ValidAmount)
		if err != nil {
			return nil, fmt.Errorf("cannot register amount validator: %w", err)
		}
	}

	metrics := middleware.NewMetrics(config.BankName)

	userHandler := userdelivery.NewHandler(service, tokenMaker, config, metrics)
	accountHandler := accountdelivery.NewHandler(service)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(metrics.Middleware())
	engine.Use(gin.Recovery())

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/balance", accountHandler.Balance)
	authRoutes.POST("/deposits", accountHandler.Deposit)
	authRoutes.POST("/withdrawals", accountHandler.Withdraw)
	authRoutes.GET("/entries", accountHandler.ListEntries)

	server := &Server{
		Service: service,
		Engine:  engine,
		Metrics: metrics,
		Config:  config,
	}

	return server, nil
}
