// Package main runs the interactive console of the bank on stdin and stdout.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/abc-bank/internal/accountrepo"
	"github.com/go-petr/abc-bank/internal/accountservice"
	"github.com/go-petr/abc-bank/internal/console"
	"github.com/go-petr/abc-bank/internal/middleware"
	"github.com/go-petr/abc-bank/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)
	if config.Environment != "development" {
		// Keep the menus readable: only problems reach stderr.
		logger = logger.Level(zerolog.WarnLevel)
	}

	ctx := logger.WithContext(context.Background())

	service := accountservice.New(accountrepo.New())

	if config.SeedDemoAccount {
		if err := service.SeedDemo(ctx); err != nil {
			logger.Fatal().Err(err).Msg("cannot seed demo account")
		}
	}

	if err := console.New(service, os.Stdin, os.Stdout, config).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("console session failed")
	}
}
