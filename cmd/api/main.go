package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticketapi/docs"
	"ticketapi/internal/config"
	"ticketapi/internal/database"
	"ticketapi/internal/database/migration"
	handlers "ticketapi/internal/http/handler"
	"ticketapi/internal/http/middleware"
	"ticketapi/internal/logging"
	"ticketapi/internal/metrics"
	"ticketapi/internal/notify"
	"ticketapi/internal/otel"
	"ticketapi/internal/repository/postgres"
	"ticketapi/internal/service"
	"ticketapi/internal/storage"
	"ticketapi/internal/worker"
)

// Slip limit is 5 MiB; the rest covers multipart framing.
const bodyLimit = 6 << 20

// @title Ticket API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logging.Configure(os.Stdout, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		fatal("tracing_init_failed", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		fatal("db_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		fatal("db_migration_failed", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		fatal("storage_init_failed", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		fatal("metrics_init_failed", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal("metrics_init_failed", err)
	}

	eventRepo := postgres.NewEventPostgres(db)
	orderRepo := postgres.NewOrderPostgres(db)
	linkRepo := postgres.NewLinkPostgres(db)
	refundRepo := postgres.NewRefundPostgres(db)
	notificationRepo := postgres.NewNotificationPostgres(db)

	svc := handlers.Services{
		Events: service.NewEventService(eventRepo),
		Orders: service.NewOrderService(orderRepo, objStore, m, service.OrderOptions{
			MaxTickets:    cfg.Order.MaxTicketsPerOrder,
			RefundLinkTTL: cfg.Order.RefundLinkTTL,
			SlipURLExpiry: cfg.MinIO.PresignExpiry,
			Location:      loc,
		}),
		Links:   service.NewLinkService(linkRepo, eventRepo),
		Refunds: service.NewRefundService(refundRepo),
		Auth:    service.NewAuthService(cfg.Admin.Password, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL),
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.Telegram.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.Telegram)
		if err != nil {
			fatal("telegram_init_failed", err)
		}
		sender = tg
	} else {
		logging.Warn("notify", "telegram_disabled", nil, map[string]any{"fallback": "log"})
	}

	var publisher notify.Publisher
	if cfg.AMQP.URL != "" {
		p, err := notify.NewAMQPPublisher(ctx, cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			fatal("amqp_init_failed", err)
		}
		defer p.Close()
		publisher = p
	}

	renderer, err := notify.NewRenderer(cfg.PublicBaseURL, loc)
	if err != nil {
		fatal("renderer_init_failed", err)
	}

	relay := worker.NewOutboxRelay(notificationRepo, orderRepo, objStore, renderer, sender, publisher, m, worker.RelayOptions{
		Interval:      cfg.Outbox.PollInterval,
		BatchSize:     cfg.Outbox.BatchSize,
		MaxAttempts:   cfg.Outbox.MaxAttempts,
		SlipURLExpiry: cfg.MinIO.PresignExpiry,
	})
	sweeper := worker.NewExpirySweeper(orderRepo, cfg.Order.PendingTTL, cfg.Order.SweepInterval, m)

	workers := make(chan struct{}, 2)
	go func() { relay.Run(ctx); workers <- struct{}{} }()
	go func() { sweeper.Run(ctx); workers <- struct{}{} }()

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, db, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	addr := ":" + cfg.Port
	listenErr := make(chan error, 1)
	go func() {
		logging.Info("server", "listening", map[string]any{"addr": addr})
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			logging.Error("server", "listen_failed", err, nil)
		}
		stop()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logging.Error("server", "shutdown_failed", err, nil)
	}
	for i := 0; i < cap(workers); i++ {
		select {
		case <-workers:
		case <-shutdownCtx.Done():
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logging.Error("tracing", "shutdown_failed", err, nil)
	}
	logging.Info("server", "stopped", nil)
}

func fatal(event string, err error) {
	logging.Error("startup", event, err, nil)
	os.Exit(1)
}
