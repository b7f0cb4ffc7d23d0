package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/watt-toolkit/spark/internal/site"
	"github.com/watt-toolkit/spark/pkg/spark/config"
	"github.com/watt-toolkit/spark/pkg/spark/logger"
	"github.com/watt-toolkit/spark/pkg/spark/metrics"
	"github.com/watt-toolkit/spark/pkg/spark/proxy"
	"github.com/watt-toolkit/spark/pkg/spark/server"
	"github.com/watt-toolkit/spark/pkg/spark/socket"
	"github.com/watt-toolkit/spark/pkg/spark/static"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		root     string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// Flags win over file and environment
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("root") {
				cfg.Static.Root = root
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")
	cmd.Flags().StringVar(&root, "root", "", "directory static files are served from")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	px := proxy.New(proxy.Config{
		AllowedHosts: cfg.Proxy.AllowedHosts,
		Timeout:      cfg.Proxy.Timeout,
	})
	defer px.Close()

	routes, err := site.New(site.Options{Proxy: px, Logger: log.Named("site")})
	if err != nil {
		return err
	}
	resolver := static.NewResolver(os.DirFS(cfg.Static.Root), cfg.Directories()...)

	sc := cfg.Server
	srv := server.New(routes, resolver, server.Config{
		MaxWorkers:     sc.MaxWorkers,
		ReadTimeout:    sc.ReadTimeout,
		WriteTimeout:   sc.WriteTimeout,
		MaxHeaderBytes: sc.MaxHeaderBytes,
		AcceptRate:     sc.AcceptRate,
		AcceptBurst:    sc.AcceptBurst,
		Socket: &socket.Config{
			NoDelay:     sc.Socket.NoDelay,
			ReusePort:   sc.Socket.ReusePort,
			DeferAccept: sc.Socket.DeferAccept,
		},
		Logger:  log.Named("server"),
		Metrics: metrics.NewCollector(reg),
	})

	log.Info("starting",
		zap.String("version", version),
		zap.String("addr", sc.Addr),
		zap.String("static_root", cfg.Static.Root),
		zap.Int("routes", routes.Len()),
		zap.Bool("proxy_enabled", px.Enabled()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(gctx, sc.Addr); !errors.Is(err, server.ErrServerClosed) {
			return err
		}
		return nil
	})

	var ms *metrics.Server
	if cfg.Metrics.Addr != "" {
		ms = metrics.NewServer(cfg.Metrics.Addr, reg, log.Named("metrics"))
		g.Go(ms.ListenAndServe)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting_down", zap.Duration("timeout", sc.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
		defer cancel()
		var errs []error
		errs = append(errs, srv.Shutdown(shutdownCtx))
		if ms != nil {
			errs = append(errs, ms.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("server_exited", zap.Error(err))
		return err
	}
	return nil
}
