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

	"github.com/Rajgohel2908/Memora/pkg/cli/config"
	httpctrl "github.com/Rajgohel2908/Memora/pkg/controller/http"
	"github.com/Rajgohel2908/Memora/pkg/service/metrics"
	"github.com/Rajgohel2908/Memora/pkg/service/visnet"
	"github.com/Rajgohel2908/Memora/pkg/service/worker"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var corsOrigins []string
	var viewTTL time.Duration
	var sweepInterval time.Duration
	var settleDelay time.Duration
	var appCfg config.AppConfigFile
	var repoCfg config.Repository
	var storageCfg config.Storage
	var authCfg config.Auth
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MEMORA_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Allowed CORS origin, can be repeated (e.g. http://localhost:5173)",
			Sources:     cli.EnvVars("MEMORA_CORS_ORIGINS"),
			Destination: &corsOrigins,
		},
		&cli.DurationFlag{
			Name:        "view-ttl",
			Usage:       "Close network views idle for longer than this",
			Category:    "Network view",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("MEMORA_VIEW_TTL"),
			Destination: &viewTTL,
		},
		&cli.DurationFlag{
			Name:        "view-sweep-interval",
			Usage:       "How often idle network views are swept",
			Category:    "Network view",
			Value:       time.Minute,
			Sources:     cli.EnvVars("MEMORA_VIEW_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
		&cli.DurationFlag{
			Name:        "layout-settle-delay",
			Usage:       "Time the layout simulation runs before it reports stabilized",
			Category:    "Network view",
			Value:       visnet.DefaultSettleDelay,
			Sources:     cli.EnvVars("MEMORA_LAYOUT_SETTLE_DELAY"),
			Destination: &settleDelay,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"repository", repoCfg,
				"storage", storageCfg,
				"auth", authCfg,
				"sentry", sentryCfg,
			)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			appConfig, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration file")
			}
			loc, err := appConfig.Location()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			blob, closeBlob, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize blob storage")
			}
			defer closeBlob()

			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			collector := metrics.New()
			ucOpts := []usecase.Option{
				usecase.WithAuth(authUC),
				usecase.WithMetrics(collector),
				usecase.WithRendererFactory(visnet.NewFactory(visnet.WithSettleDelay(settleDelay))),
				usecase.WithPalette(appConfig.ToPalette()),
				usecase.WithLocation(loc),
			}
			if blob != nil {
				ucOpts = append(ucOpts, usecase.WithBlobStorage(blob))
			}
			uc := usecase.New(repo, ucOpts...)

			sweeper := worker.NewViewSweeper(uc.Network, viewTTL, sweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start view sweeper")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithMetrics(collector),
			}
			if dir := storageCfg.UploadDir(); dir != "" {
				httpOpts = append(httpOpts, httpctrl.WithUploadDir(dir))
			}
			if len(corsOrigins) > 0 {
				httpOpts = append(httpOpts, httpctrl.WithCORS(corsOrigins))
			}

			httpHandler, err := httpctrl.New(uc, httpOpts...)
			if err != nil {
				sweeper.Stop()
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "timezone", loc.String())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				sweeper.Stop()
				uc.Network.CloseAll()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the sweeper first so it does not race the final teardown
				sweeper.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				uc.Network.CloseAll()

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
