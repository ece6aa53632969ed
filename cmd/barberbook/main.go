package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/internal/handlers"
	"github.com/barberbook/barberbook/internal/outbox"
	"github.com/barberbook/barberbook/internal/storage"
	"github.com/barberbook/barberbook/libs/auth"
	"github.com/barberbook/barberbook/libs/config"
	"github.com/barberbook/barberbook/libs/db"
	"github.com/barberbook/barberbook/libs/httpx"
	"github.com/barberbook/barberbook/libs/kafkax"
	otelx "github.com/barberbook/barberbook/libs/otel"
	"github.com/barberbook/barberbook/libs/runtime"
	"github.com/barberbook/barberbook/migrations"
)

func main() {
	service := config.String("SERVICE_NAME", "barberbook")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		logger.Error("migrations failed", "err", err)
		panic(err)
	}

	outboxRepo := outbox.NewRepository(pool)
	shiftRepo := storage.NewShiftRepository(pool)
	apptRepo := storage.NewAppointmentRepository(pool, outboxRepo)
	catalogRepo := storage.NewCatalogRepository(pool)
	userRepo := storage.NewUserRepository(pool)

	engine := booking.NewEngine(shiftRepo, apptRepo, catalogRepo, logger)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	tokenTTL := config.Duration("JWT_TTL", 24*time.Hour)
	authHandler := handlers.NewAuthHandler(userRepo, logger, jwtSecret, tokenTTL)
	bookingHandler := handlers.NewBookingHandler(engine, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, logger)
	adminHandler := handlers.NewAdminHandler(engine, catalogRepo, logger)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}

	var limiter httpx.Limiter
	rateLimit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer func() { _ = rdb.Close() }()
		limiter = httpx.NewRedisLimiter(rdb, rateLimit, time.Minute, service)
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: httpx.RedisReadyCheck(rdb)})
	} else {
		limiter = httpx.NewMemoryLimiter(rateLimit, time.Minute)
	}

	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.HandleFunc("/api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("/api/v1/auth/me", handlers.RequireAuth(jwtSecret, authHandler.Me))

	mux.HandleFunc("/api/v1/barbers", catalogHandler.Barbers)
	mux.HandleFunc("/api/v1/services", catalogHandler.Services)
	mux.HandleFunc("/api/v1/availability", bookingHandler.Availability)

	mux.HandleFunc("/api/v1/appointments", handlers.RequireAuth(jwtSecret, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			bookingHandler.List(w, r)
			return
		}
		bookingHandler.Create(w, r)
	}))
	mux.HandleFunc("/api/v1/appointments/cancel", handlers.RequireAuth(jwtSecret, bookingHandler.Cancel))

	mux.HandleFunc("/api/v1/admin/barbers", handlers.RequireRole(jwtSecret, auth.RoleAdmin, adminHandler.CreateBarber))
	mux.HandleFunc("/api/v1/admin/services", handlers.RequireRole(jwtSecret, auth.RoleAdmin, adminHandler.CreateService))
	mux.HandleFunc("/api/v1/admin/shifts/replace", handlers.RequireRole(jwtSecret, auth.RoleAdmin, adminHandler.ReplaceShifts))
	mux.HandleFunc("/api/v1/admin/shifts", handlers.RequireRole(jwtSecret, auth.RoleAdmin, adminHandler.ListShifts))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithRateLimit(limiter, logger, true),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitCSV(config.String("CORS_ALLOWED_ORIGINS", "")),
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
