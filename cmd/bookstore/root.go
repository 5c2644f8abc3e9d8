package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookhive/bookstore-api/internal/infrastructure/config"
	"github.com/bookhive/bookstore-api/pkg/logger"
)

const serviceName = "bookstore-api"

var (
	// flags
	logLevel string

	cfg *config.Config
	log zerolog.Logger
)

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides LOG_LEVEL")
	RootCmd.AddCommand(serveCmd, indexesCmd)
}

var RootCmd = &cobra.Command{
	Use:           "bookstore",
	Short:         "Bookstore marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: serviceName,
			Env:     cfg.Env,
		})
		return nil
	},
}
