package main

import (
	"context"
	"os"

	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
	"github.com/TheDarkness2001/SMS-sub001/internal/server"
)

// @title Tutoring Center Payments API
// @version 1.0
// @description Payment ledger and revenue reporting for a multi-branch tutoring center.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	ctx := context.Background()
	srv, err := server.NewServer(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Payments API stopped with an error")
		os.Exit(1)
	}

	logger.Info().Msg("Payments API exited")
}
