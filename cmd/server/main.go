package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"kitsu-backend/internal/config"
	"kitsu-backend/internal/es"
	"kitsu-backend/internal/handlers"
	"kitsu-backend/internal/logging"
	loggingmw "kitsu-backend/internal/middleware/logging"
	"kitsu-backend/internal/mykafka"
	"kitsu-backend/internal/notify"
	"kitsu-backend/internal/service"
	"kitsu-backend/internal/service/token"
	httpserver "kitsu-backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := config.SeedAdmin(db, configuration); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS}, "order_events")
	}

	notifier := notify.NewTelegram(configuration.TELEGRAM_TOKEN, configuration.TELEGRAM_CHAT_ID)

	orderSvc := &service.OrderService{DB: db}
	paymentSvc := &service.PaymentService{DB: db}
	statsSvc := &service.StatsService{DB: db}
	tokenSvc := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		MenuHandler:    &handlers.MenuHandler{DB: db, Index: "menu_items"},
		OrderHandler:   &handlers.OrderHandler{Svc: orderSvc, Producer: prod, Notifier: notifier, UploadDir: configuration.UPLOAD_DIR},
		PaymentHandler: &handlers.PaymentHandler{Svc: paymentSvc, Producer: prod, Notifier: notifier},
		AdminHandler:   &handlers.AdminHandler{Orders: orderSvc, Stats: statsSvc},
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
		TokenService:   tokenSvc,
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Printf("elasticsearch disabled: %v", err)
		} else {
			deps.MenuHandler.ES = esClient
			deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "menu_items"}
		}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
