// Package main starts the HTTP API of the account ledger.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/abc-bank/cmd/httpserver"
	"github.com/go-petr/abc-bank/internal/accountrepo"
	"github.com/go-petr/abc-bank/internal/accountservice"
	"github.com/go-petr/abc-bank/internal/middleware"
	"github.com/go-petr/abc-bank/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)
	ctx := logger.WithContext(context.Background())

	service := accountservice.New(accountrepo.New())

	if config.SeedDemoAccount {
		if err := service.SeedDemo(ctx); err != nil {
			logger.Fatal().Err(err).Msg("cannot seed demo account")
		}
	}

	server, err := httpserver.New(service, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("BANK API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
