// @title Event Ticketing API
// @version 1.0
// @description Event listings, ticket bookings with consistent inventory, notifications and dashboards.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"eventticketing/config"
	_ "eventticketing/docs"
	"eventticketing/internal/adapters/auth"
	"eventticketing/internal/adapters/email"
	"eventticketing/internal/authz"
	deliveryhttp "eventticketing/internal/delivery/http"
	"eventticketing/internal/delivery/http/controllers"
	"eventticketing/internal/messaging"
	"eventticketing/internal/metrics"
	"eventticketing/internal/repository/postgres"
	"eventticketing/internal/services"
	"eventticketing/internal/supervisor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.URL, postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	dashboardRepo := postgres.NewDashboardRepository(db)

	timeout := cfg.Server.RequestTimeout
	tokens := auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, cfg.Auth.TokenExpiry, timeout)
	if err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	enforcer, err := authz.NewEnforcer(cfg.Auth.PolicyPath)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	bus := messaging.NewBus(cfg.Events.BusBuffer, logger)
	defer bus.Close()

	bookingService := services.NewBookingService(bookingRepo, messaging.NewBookingPublisher(bus), m, logger, timeout)
	notificationService := services.NewNotificationService(notificationRepo, timeout)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.SESRegion,
			AccessKeyID:        cfg.Mail.SESAccessKeyID,
			SecretAccessKey:    cfg.Mail.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
		Breaker: email.BreakerConfig{
			FailureThreshold: cfg.Mail.BreakerThreshold,
			OpenTimeout:      cfg.Mail.BreakerTimeout,
			SendTimeout:      cfg.Mail.SendTimeout,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	consumer := messaging.NewNotificationConsumer(bus, notificationService, emailService, m, messaging.ConsumerConfig{
		MaxRetries:      cfg.Events.NotifyRetries,
		InitialInterval: cfg.Events.NotifyRetryWait,
		CloseTimeout:    cfg.Server.ShutdownTimeout,
	}, logger)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		AuthRateLimit:  cfg.Server.AuthRateLimit,
	}, deliveryhttp.Controllers{
		Auth:         controllers.NewAuthController(logger, userService),
		Event:        controllers.NewEventController(logger, services.NewEventService(eventRepo, timeout)),
		Booking:      controllers.NewBookingController(logger, bookingService),
		Notification: controllers.NewNotificationController(logger, notificationService),
		Dashboard:    controllers.NewDashboardController(logger, services.NewDashboardService(dashboardRepo, timeout)),
		Health:       controllers.NewHealthController(logger, db),
	}, tokens, enforcer, m, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logger, supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.AddMessagingService(consumer)
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout).WaitFor(consumer.Ready()))

	logger.Info("server starting", "port", cfg.Server.Port, "env", cfg.Environment, "mail_provider", cfg.Mail.Provider)
	err = tree.Serve(ctx)
	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		logger.Warn("services did not stop in time", "count", len(report))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
