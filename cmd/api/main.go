package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/api/routes"
	"github.com/willowrootwellness/willowroot-backend/internal/assessment"
	"github.com/willowrootwellness/willowroot-backend/internal/bookings"
	"github.com/willowrootwellness/willowroot-backend/internal/catalog"
	"github.com/willowrootwellness/willowroot-backend/internal/compounds"
	"github.com/willowrootwellness/willowroot-backend/internal/enrolments"
	"github.com/willowrootwellness/willowroot-backend/internal/guidance"
	"github.com/willowrootwellness/willowroot-backend/internal/orders"
	"github.com/willowrootwellness/willowroot-backend/internal/reviews"
	"github.com/willowrootwellness/willowroot-backend/pkg/config"
	"github.com/willowrootwellness/willowroot-backend/pkg/db"
	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/metrics"
	"github.com/willowrootwellness/willowroot-backend/pkg/migrate"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox"
	"github.com/willowrootwellness/willowroot-backend/pkg/redis"
	"github.com/willowrootwellness/willowroot-backend/pkg/scheduling"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := openDatabase(context.Background(), cfg, logg)
	requireResource(logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	checkout := metrics.NewCheckoutMetrics(registry)

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	compoundRepo := compounds.NewRepository(conn)
	events := outbox.NewService(outbox.NewRepository(conn), logg)

	catalogSvc, err := catalog.NewService(catalogRepo, logg)
	requireResource(logg, "catalog service", err)

	compoundSvc, err := compounds.NewService(compoundRepo, logg)
	requireResource(logg, "compound service", err)

	guidanceSvc, err := guidance.NewService(catalogRepo, logg)
	requireResource(logg, "guidance service", err)

	assessmentSvc, err := assessment.NewService(assessment.NewRepository(conn), logg)
	requireResource(logg, "assessment service", err)

	reviewSvc, err := reviews.NewService(reviews.NewRepository(conn), catalogRepo, logg)
	requireResource(logg, "review service", err)

	enrolmentSvc, err := enrolments.NewService(enrolments.NewRepository(conn), logg)
	requireResource(logg, "enrolment service", err)

	bookingSvc, err := bookings.NewService(
		dbClient,
		bookings.NewRepository(conn),
		enrolmentSvc,
		scheduling.New(cfg.Scheduling, logg),
		events,
		logg,
	)
	requireResource(logg, "booking service", err)

	orderSvc, err := orders.NewService(
		dbClient,
		orders.NewRepository(conn),
		catalogRepo,
		compoundRepo,
		events,
		checkout,
		cfg.Checkout,
		logg,
	)
	requireResource(logg, "order service", err)

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
		Catalog:     catalogSvc,
		Compounds:   compoundSvc,
		Orders:      orderSvc,
		Assessments: assessmentSvc,
		Guidance:    guidanceSvc,
		Bookings:    bookingSvc,
		Enrolments:  enrolmentSvc,
		Reviews:     reviewSvc,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", router)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// openDatabase boots the configured backend. The sqlite flag exists so local
// development can run without a postgres instance; schema changes still go
// through goose in every other environment.
func openDatabase(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if cfg.FeatureFlags.UseSQLite {
		if !cfg.App.IsDev() {
			return nil, fmt.Errorf("sqlite mode is dev-only")
		}
		conn, err := gorm.Open(sqlite.Open(cfg.DB.DSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		if err := conn.AutoMigrate(
			&models.Product{},
			&models.Compound{},
			&models.CompoundBatch{},
			&models.CompoundDispensation{},
			&models.Order{},
			&models.OrderItem{},
			&models.Review{},
			&models.WellnessAssessment{},
			&models.WellnessPackage{},
			&models.PackageEnrolment{},
			&models.Booking{},
			&models.OutboxEvent{},
		); err != nil {
			return nil, fmt.Errorf("migrating sqlite schema: %w", err)
		}
		logg.Info(ctx, "sqlite development database ready")
		return db.NewWithConn(conn), nil
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("failed to bootstrap %s", resource), err)
	os.Exit(1)
}
