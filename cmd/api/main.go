package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/email"
	authHandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/hospital-api/internal/handler/doctor"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	medicalHandler "github.com/jwalitptl/hospital-api/internal/handler/medical"
	patientHandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	promHandler "github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	redisrepo "github.com/jwalitptl/hospital-api/internal/repository/redis"
	"github.com/jwalitptl/hospital-api/internal/router"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	"github.com/jwalitptl/hospital-api/internal/service/audit"
	authService "github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/internal/service/compose"
	doctorService "github.com/jwalitptl/hospital-api/internal/service/doctor"
	medicalService "github.com/jwalitptl/hospital-api/internal/service/medical"
	patientService "github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/internal/service/sequence"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

var configDirs []string

func main() {
	rootCmd := &cobra.Command{
		Use:           "hospital-api",
		Short:         "Hospital records API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&configDirs, "config-dir", nil,
		"Directories searched for config.yaml (default . and ./config)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDirs...)
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			count, err := postgres.NewMigrator(db).Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := postgres.NewMigrator(db).Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					appliedAt = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func openDB(ctx context.Context) (*sqlx.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return postgres.NewDB(ctx, cfg.Database)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	httputil.ExposeInternalErrors = cfg.Server.ExposeInternalErrors

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// Redis is optional unless it backs the sequences
	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		rdb, err = redisrepo.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	// Audit trail
	auditor := audit.NewNop()
	if cfg.Audit.Enabled {
		z, err := audit.NewZap(cfg.Audit.Output)
		if err != nil {
			return fmt.Errorf("failed to build audit logger: %w", err)
		}
		auditor = audit.NewLogger(z)
		defer func() { _ = auditor.Sync() }()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry, cfg.Metrics.Namespace)

	// Initialize repositories
	tx := postgres.NewTransactor(db)
	accountRepo := postgres.NewAccountRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	reportRepo := postgres.NewMedicalReportRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)

	var seq repository.Sequencer
	switch cfg.Sequence.Backend {
	case config.SequenceBackendRedis:
		seq = redisrepo.NewSequencer(rdb, cfg.Sequence.KeyPrefix)
	default:
		seq = postgres.NewSequencer(db)
	}

	validate, err := validator.New(model.ValidationRules()...)
	if err != nil {
		return err
	}

	// Initialize services
	assigner := sequence.NewAssigner(seq, m)
	composer := compose.New(accountRepo, doctorRepo, patientRepo)
	guard := access.NewGuard(access.NewPolicy(), auditor, m)

	authSvc := authService.NewService(tx, accountRepo, doctorRepo, patientRepo, assigner,
		security.NewBcryptHasher(0), auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry(), cfg.JWT.Issuer),
		email.NewService(cfg.Email), auditor, m)
	doctorSvc := doctorService.NewService(tx, accountRepo, doctorRepo, patientRepo, composer, guard, validate)
	patientSvc := patientService.NewService(patientRepo, reportRepo, prescriptionRepo, composer)
	medicalSvc := medicalService.NewService(tx, patientRepo, reportRepo, prescriptionRepo, assigner, composer, guard, m)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc, cfg.JWT.ActorCacheTTL)
	maxLimit := cfg.Pagination.MaxLimit

	var healthRedis goredis.UniversalClient
	if rdb != nil {
		healthRedis = rdb
	}

	var rateLimit *middleware.RateLimiterConfig
	if cfg.RateLimit.Enabled {
		rateLimit = &middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RequestsPerSecond,
			Burst: cfg.RateLimit.Burst,
			TTL:   cfg.RateLimit.ClientTTL,
		}
	}

	r, err := router.NewRouter(authMiddleware, router.Handlers{
		Auth:    authHandler.NewHandler(authSvc),
		Doctor:  doctorHandler.NewHandler(doctorSvc, maxLimit, authMiddleware.Forget),
		Patient: patientHandler.NewHandler(patientSvc, maxLimit),
		Medical: medicalHandler.NewHandler(medicalSvc, maxLimit),
		Health:  health.NewHandler(db, healthRedis),
		Metrics: promHandler.New(registry, cfg.Metrics.Namespace),
	}, router.RouterConfig{
		Mode:           cfg.Server.Mode,
		CORS:           middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins...),
		RateLimit:      rateLimit,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodySize:    1 << 20,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("sequence_backend", cfg.Sequence.Backend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
