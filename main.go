package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"carrier-engagement/config"
	"carrier-engagement/controller"
	"carrier-engagement/dao"
	"carrier-engagement/db"
	"carrier-engagement/pkg/fmcsa"
	"carrier-engagement/usecase"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "carrier-engagement",
		Short: "Inbound carrier engagement API for voice-agent load negotiations",
		Long: `carrier-engagement receives call events from the voice platform, verifies
carriers, negotiates rates within policy and classifies finished calls.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(verifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func newCarrierUsecase(cfg *config.Config) (*usecase.CarrierUsecase, func()) {
	registry := fmcsa.NewClient(cfg.FMCSA.BaseURL, cfg.FMCSA.APIKey, cfg.FMCSA.Timeout)
	if cfg.Redis.Addr == "" || cfg.Redis.CacheTTL <= 0 {
		return usecase.NewCarrierUsecase(registry, nil), func() {}
	}
	cache := dao.NewRedisVerificationCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
	slog.Info("carrier verification cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	return usecase.NewCarrierUsecase(registry, cache), func() { cache.Close() }
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if issues := cfg.SecurityIssues(); len(issues) > 0 {
		slog.Warn("security issues detected", "issues", issues)
	}

	// 1. DB Connection
	conn, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	loadRepo := dao.NewLoadRepository(conn)
	if n, err := db.Seed(ctx, loadRepo, time.Now()); err != nil {
		return fmt.Errorf("seed loads: %w", err)
	} else if n > 0 {
		slog.Info("seeded sample loads", "count", n)
	}

	// 2. Dependency Injection
	eventRepo := dao.NewEventRepository(conn)
	negotiationRepo := dao.NewNegotiationRepository(conn)
	analyticsRepo := dao.NewAnalyticsRepository(conn)

	carrierUsecase, closeCache := newCarrierUsecase(cfg)
	defer closeCache()
	loadUsecase := usecase.NewLoadUsecase(loadRepo)
	negotiationUsecase := usecase.NewNegotiationUsecase(dao.NewNegotiationLedger(), negotiationRepo)
	analyticsUsecase := usecase.NewAnalyticsUsecase(analyticsRepo)
	eventUsecase := usecase.NewEventUsecase(eventRepo, carrierUsecase, loadUsecase, negotiationUsecase, analyticsUsecase)
	dashboardUsecase := usecase.NewDashboardUsecase(analyticsRepo, negotiationRepo, eventRepo)

	limiter := controller.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx.Done())

	// 3. Routing
	gin.SetMode(gin.ReleaseMode)
	router := controller.NewRouter(controller.RouterConfig{
		APIKey:      cfg.APIKey,
		CORSOrigins: cfg.CORSOrigins,
		RateLimiter: limiter,
	}, controller.Controllers{
		Webhook:     controller.NewWebhookController(eventUsecase),
		Load:        controller.NewLoadController(loadUsecase),
		Carrier:     controller.NewCarrierController(carrierUsecase),
		Dashboard:   controller.NewDashboardController(dashboardUsecase),
		Negotiation: controller.NewNegotiationController(negotiationUsecase),
	})

	// 4. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "db_driver", cfg.Database.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Migration completed successfully")

			if !seed {
				return nil
			}
			n, err := db.Seed(cmd.Context(), dao.NewLoadRepository(conn), time.Now())
			if err != nil {
				return fmt.Errorf("seed loads: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d loads\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert any missing sample loads")
	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <mc_number>",
		Short: "Check a carrier's eligibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			carriers, closeCache := newCarrierUsecase(cfg)
			defer closeCache()

			v := carriers.Verify(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if v.IsEligible {
				fmt.Fprintf(out, "MC %s: eligible (%s, %s)\n", v.MCNumber, v.CompanyName, v.Status)
				return nil
			}
			fmt.Fprintf(out, "MC %s: not eligible: %s\n", args[0], orNone(v.Error, v.Status))
			return nil
		},
	}
}

func orNone(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "no reason given"
}
