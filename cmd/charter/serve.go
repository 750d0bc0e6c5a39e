package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/charter"
	"github.com/aretw0/charter/internal/cli"
	"github.com/aretw0/charter/internal/validator"
	httpAdapter "github.com/aretw0/charter/pkg/adapters/http"
	"github.com/aretw0/charter/pkg/adapters/telegram"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Telegram bot and the HTTP API",
	Long: `Starts long polling against the Telegram Bot API and, when an address is set,
the HTTP server with health, metrics, the JSON event endpoint and session admin.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = addr
		}
		noTelegram, _ := cmd.Flags().GetBool("no-telegram")
		if noTelegram && cfg.HTTPAddr == "" {
			exitOnError("starting server", errors.New("nothing to serve: telegram disabled and no HTTP address"))
		}
		if !noTelegram {
			exitOnError("starting server", cfg.RequireToken())
		}

		logger := newLogger(cfg)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{Metrics: true})
		exitOnError("initializing", err)
		defer app.Close()

		exitOnError("checking card template", app.Renderer.Check())
		exitOnError("checking boat names", validator.CheckButtonTokens(app.Catalog.Boats()))
		if err := validator.ValidateCatalog(app.Catalog.Boats(), app.Engine.Flow(), cfg.PhotosDir); err != nil {
			logger.Warn("catalog has problems", "err", err)
		}
		app.StartJanitor(ctx)

		serverErrors := make(chan error, 2)

		var srv *http.Server
		if cfg.HTTPAddr != "" {
			handler := httpAdapter.NewHandler(app.Engine,
				httpAdapter.WithMetrics(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})),
				httpAdapter.WithLogger(logger),
				httpAdapter.WithVersion(charter.Version),
			)
			srv = &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				logger.Info("http server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErrors <- err
				}
			}()
		}

		if !noTelegram {
			api, err := telegram.Connect(cfg.Token)
			exitOnError("connecting to telegram", err)
			logger.Info("telegram bot authorized", "username", api.Self.UserName, "boats", app.Catalog.Len())

			sender := telegram.NewSender(api,
				telegram.WithPhotoResolver(app.Renderer.PhotoPath),
				telegram.WithSenderLogger(logger),
			)
			bot := telegram.NewBot(api, app.Engine, telegram.WithSender(sender), telegram.WithLogger(logger))
			go func() {
				if err := bot.Run(ctx); err != nil {
					serverErrors <- err
				}
			}()
		}

		exitCode := 0
		select {
		case err := <-serverErrors:
			logger.Error("server failed", "err", err)
			exitCode = 1
			stop()
		case <-ctx.Done():
			logger.Info("shutting down")
		}

		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				_ = srv.Close()
			}
		}
		if exitCode != 0 {
			_ = app.Close()
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "HTTP listen address (overrides http_addr)")
	serveCmd.Flags().Bool("no-telegram", false, "Serve only the HTTP API")
}
