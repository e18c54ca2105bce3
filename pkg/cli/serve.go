package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/aquanet-ops/aquanet/pkg/cli/config"
	httpctrl "github.com/aquanet-ops/aquanet/pkg/controller/http"
	"github.com/aquanet-ops/aquanet/pkg/usecase"
	"github.com/aquanet-ops/aquanet/pkg/utils/logging"
	"github.com/aquanet-ops/aquanet/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var usersCfg config.Users
	var slackCfg config.Slack
	var storageCfg config.Storage

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("AQUANET_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, usersCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}
			if catalog == nil {
				logger.Info("No catalog configured, reference data validation disabled")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{}
			if catalog != nil {
				ucOpts = append(ucOpts, usecase.WithCatalog(catalog))
			}

			userDir, err := usersCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure user service client")
			}
			if userDir != nil {
				ucOpts = append(ucOpts, usecase.WithUserDirectory(userDir))
				logger.Info("User service enabled")
			} else {
				logger.Warn("User service not configured, enrichment will serve fallbacks only")
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logger.Info("Slack notifications enabled")
			} else {
				logger.Info("Slack not configured, incident notifications disabled")
			}

			store, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure attachment storage")
			}
			if store != nil {
				defer safe.Close(ctx, store)
				ucOpts = append(ucOpts, usecase.WithStorage(store))
				logger.Info("Attachment storage enabled")
			} else {
				logger.Info("Attachment storage not configured, uploads disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
