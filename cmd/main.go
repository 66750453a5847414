// Package main runs the safebank ledger as an interactive shell or a JSON API.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-petr/safebank/cmd/httpserver"
	"github.com/go-petr/safebank/internal/accountrepo"
	"github.com/go-petr/safebank/internal/ledgerservice"
	"github.com/go-petr/safebank/internal/middleware"
	"github.com/go-petr/safebank/internal/shell"
	"github.com/go-petr/safebank/pkg/configpkg"
	"github.com/go-petr/safebank/pkg/dbpkg"
	"github.com/go-petr/safebank/pkg/eventpkg"
	"github.com/go-petr/safebank/pkg/pinpkg"

	_ "github.com/lib/pq"
)

var errUnknownBackend = errors.New("unknown store backend")

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "safebank",
		Short:        "safebank keeps customer accounts and their balances",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "directory holding app.env")

	rootCmd.AddCommand(
		shellCommand(&configPath),
		serveCommand(&configPath),
		migrateCommand(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (configpkg.Config, zerolog.Logger) {
	config, err := configpkg.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	return config, middleware.CreateLogger(config)
}

// openStore connects the configured account store. The returned func releases it.
func openStore(config configpkg.Config) (ledgerservice.Repo, func() error, error) {
	switch config.StoreBackend {
	case configpkg.BackendPostgres:
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to database: %w", err)
		}

		return accountrepo.NewRepoPGS(db), db.Close, nil
	case configpkg.BackendRedis:
		client, err := dbpkg.SetupRedis(config.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to redis: %w", err)
		}

		return accountrepo.NewRepoRedis(client, config.RedisPrefix), client.Close, nil
	case configpkg.BackendMemory:
		return accountrepo.NewRepoMemory(), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", errUnknownBackend, config.StoreBackend)
}

// openPublisher connects to RabbitMQ, or returns a no-op publisher when AMQP_URL is empty.
func openPublisher(config configpkg.Config) (eventpkg.Publisher, error) {
	if config.AMQPURL == "" {
		return eventpkg.Noop{}, nil
	}

	return eventpkg.NewProducer(config.AMQPURL, config.EventsExchange)
}

// newLedger wires the ledger over the configured store and publisher.
func newLedger(config configpkg.Config, logger zerolog.Logger) (*ledgerservice.Service, func(), error) {
	repo, closeStore, err := openStore(config)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := openPublisher(config)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("cannot connect to message broker: %w", err)
	}

	release := func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close publisher")
		}
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("cannot close store")
		}
	}

	return ledgerservice.New(repo, pinpkg.New(), publisher), release, nil
}

func shellCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "run the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger := loadConfig(*configPath)

			ledger, release, err := newLedger(config, logger)
			if err != nil {
				logger.Error().Err(err).Msg("cannot start ledger")
				return err
			}
			defer release()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return shell.New(ledger, logger, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
}

func serveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the ledger as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger := loadConfig(*configPath)

			ledger, release, err := newLedger(config, logger)
			if err != nil {
				logger.Error().Err(err).Msg("cannot start ledger")
				return err
			}
			defer release()

			server, err := httpserver.New(ledger, logger, config)
			if err != nil {
				logger.Error().Err(err).Msg("cannot create server")
				return err
			}

			logger.Info().Str("address", config.ServerAddress).Msg("SAFEBANK API SERVER HAS STARTED")

			return server.Engine.Run(config.ServerAddress)
		},
	}
}

func migrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "migrate the postgres schema all the way up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger := loadConfig(*configPath)

			applied, err := dbpkg.Migrate(config.MigrationURL, config.DBSource)
			if err != nil {
				logger.Error().Err(err).Msg("cannot migrate database")
				return err
			}

			if !applied {
				logger.Info().Msg("no change in migration")
				return nil
			}

			logger.Info().Msg("migrated up")

			return nil
		},
	}
}
