package main

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/mowops-settlement/internal/auth"
	"github.com/nurpe/mowops-settlement/internal/config"
	"github.com/nurpe/mowops-settlement/internal/db"
	"github.com/nurpe/mowops-settlement/internal/event"
	"github.com/nurpe/mowops-settlement/internal/excel"
	httphandler "github.com/nurpe/mowops-settlement/internal/http"
	"github.com/nurpe/mowops-settlement/internal/http/middleware"
	"github.com/nurpe/mowops-settlement/internal/logger"
	"github.com/nurpe/mowops-settlement/internal/mail"
	"github.com/nurpe/mowops-settlement/internal/notify"
	"github.com/nurpe/mowops-settlement/internal/payment"
	"github.com/nurpe/mowops-settlement/internal/pdf"
	"github.com/nurpe/mowops-settlement/internal/repository"
	"github.com/nurpe/mowops-settlement/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var publisher notify.Publisher
	if cfg.AMQP.URL != "" {
		conn, err := event.Connect(cfg.AMQP.URL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect rabbitmq")
		}
		defer conn.Close()
		publisher = event.NewPublisher(conn, cfg.AMQP.Queue)
	}

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewMailer(cfg.SMTP)
	}

	pricingRepo := repository.NewPricingRepository(
		database, cache, time.Duration(cfg.Pricing.CacheTTLSeconds)*time.Second, log)
	addressRepo := repository.NewAddressRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	contractorRepo := repository.NewContractorRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	notifier := notify.NewNotifier(notificationRepo, publisher, mailer, log)
	provider := payment.NewStripeProvider(cfg.Stripe)

	quoteService := service.NewQuoteService(pricingRepo, addressRepo)
	payoutService := service.NewPayoutService(
		bookingRepo, contractorRepo, provider, cfg.Pricing.Currency, log)
	bookingService := service.NewBookingService(
		bookingRepo, contractorRepo, payoutService, notifier, pdf.NewGenerator(), log)
	tierService := service.NewTierService(contractorRepo, notifier, excel.NewGenerator(), log)
	accountService := service.NewAccountService(contractorRepo, provider, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		quoteService, bookingService, tierService, accountService, cfg.Stripe.WebhookSecret, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting settlement service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
