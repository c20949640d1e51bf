package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/barbearia-nativa/bookingd/internal/booking"
	"github.com/barbearia-nativa/bookingd/internal/catalog"
	"github.com/barbearia-nativa/bookingd/internal/contact"
	"github.com/barbearia-nativa/bookingd/internal/handlers"
	"github.com/barbearia-nativa/bookingd/internal/outbox"
	"github.com/barbearia-nativa/bookingd/internal/storage"
	"github.com/barbearia-nativa/bookingd/libs/config"
	"github.com/barbearia-nativa/bookingd/libs/db"
	"github.com/barbearia-nativa/bookingd/libs/httpx"
	"github.com/barbearia-nativa/bookingd/libs/kafkax"
	otelx "github.com/barbearia-nativa/bookingd/libs/otel"
	"github.com/barbearia-nativa/bookingd/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "bookingd")
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
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := storage.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema bootstrap failed", "err", err)
		panic(err)
	}
	if config.Bool("SEED_ON_START", true) {
		if err := storage.Seed(ctx, pool, logger); err != nil {
			logger.Error("seed failed", "err", err)
			panic(err)
		}
	}

	outboxRepo := outbox.NewRepository(pool)
	apptRepo := storage.NewAppointmentRepository(pool, outboxRepo)
	serviceRepo := storage.NewServiceRepository(pool)
	hoursRepo := storage.NewHoursRepository(pool)
	contactRepo := storage.NewContactRepository(pool)

	interval := config.Int("SLOT_INTERVAL_MINUTES", 30)
	bookingSvc := booking.NewService(apptRepo, serviceRepo, hoursRepo, interval, logger)
	catalogSvc := catalog.NewService(serviceRepo, apptRepo, logger)
	contactSvc := contact.NewService(contactRepo, logger)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	handlers.Register(mux,
		handlers.NewAppointmentHandler(bookingSvc, logger),
		handlers.NewServiceHandler(catalogSvc, bookingSvc, logger),
		handlers.NewContactHandler(contactSvc, logger),
	)

	rateLimit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var limit httpx.Middleware
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		limit = httpx.NewRedisRateLimiter(rdb, rateLimit, time.Minute, service).Middleware(logger, true)
	} else {
		limit = httpx.NewRateLimiter(rateLimit, time.Minute).Middleware()
	}

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ORIGINS"),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithBodyLimit(1<<20),
		limit,
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "bookingd")

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
