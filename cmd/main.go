package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/get_booking"
	getHostBookingsHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/get_host_bookings"
	getQuoteHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/get_quote"
	getUserBookingsHandler "github.com/nowtown/NT-BookingService/internal/api/handlers/get_user_bookings"
	"github.com/nowtown/NT-BookingService/internal/api/middleware"
	"github.com/nowtown/NT-BookingService/internal/config"
	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	ledgerRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/ledger"
	listingServiceClient "github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	paymentServiceClient "github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
	"github.com/nowtown/NT-BookingService/internal/notifications"
	bookingsService "github.com/nowtown/NT-BookingService/internal/service/bookings"
	confirmationService "github.com/nowtown/NT-BookingService/internal/service/confirmation"
	pricingService "github.com/nowtown/NT-BookingService/internal/service/pricing"
	cancelBookingUC "github.com/nowtown/NT-BookingService/internal/usecase/cancel_booking"
	confirmBookingUC "github.com/nowtown/NT-BookingService/internal/usecase/confirm_booking"
	createBookingUC "github.com/nowtown/NT-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/nowtown/NT-BookingService/internal/usecase/get_availability"
	getQuoteUC "github.com/nowtown/NT-BookingService/internal/usecase/get_quote"
	sweepBookingsUC "github.com/nowtown/NT-BookingService/internal/usecase/sweep_bookings"
	"github.com/nowtown/NT-BookingService/pkg/dbmetrics"
	"github.com/nowtown/NT-BookingService/pkg/logger"
	"github.com/nowtown/NT-BookingService/pkg/metrics"
	"github.com/nowtown/NT-BookingService/pkg/money"
	"github.com/nowtown/NT-BookingService/pkg/simpletxmanager"
	"github.com/nowtown/NT-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting NT-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	listingClient := listingServiceClient.NewClient(
		cfg.ListingService.URL,
		time.Duration(cfg.ListingService.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ListingService=%s timeout=%ds, PaymentService=%s timeout=%ds)",
		cfg.ListingService.URL, cfg.ListingService.Timeout, cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Публикация доменных событий (RabbitMQ или заглушка)
	type EventPublisher interface {
		Publish(ctx context.Context, routingKey string, payload interface{})
	}
	var publisher EventPublisher

	if cfg.RabbitMQ.Enabled {
		rmqPublisher, err := notifications.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmqPublisher.Close()
		publisher = rmqPublisher
		log.Info("Event publisher connected (exchange=%s)", cfg.RabbitMQ.Exchange)
	} else {
		publisher = notifications.NopPublisher{}
		log.Info("Event publishing disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		ledgerRepository  *ledgerRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		ledgerRepository = ledgerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		ledgerRepository = ledgerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Тарифные ставки платформы из конфигурации
	rates := pricingService.Rates{
		VAT: money.BasisPoints(cfg.Booking.VATBasisPoints),
		PlanFees: map[domain.HostPlan]money.BasisPoints{
			domain.PlanStandard: money.BasisPoints(cfg.Booking.FeeStandardBasisPoints),
			domain.PlanPlus:     money.BasisPoints(cfg.Booking.FeePlusBasisPoints),
			domain.PlanPro:      money.BasisPoints(cfg.Booking.FeeProBasisPoints),
		},
	}

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(rates, log)
	bookingsSvc := bookingsService.NewService(bookingRepository, log)
	confirmationSvc := confirmationService.NewService(bookingRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		listingClient,
		paymentClient,
		pricingSvc,
		confirmationSvc,
		publisher,
		txMgr,
		log,
	)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		paymentClient,
		confirmationSvc,
		publisher,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		listingClient,
		paymentClient,
		publisher,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(ledgerRepository, listingClient, log)
	getQuoteUseCase := getQuoteUC.NewUseCase(ledgerRepository, listingClient, pricingSvc, log)
	sweepBookingsUseCase := sweepBookingsUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		publisher,
		txMgr,
		time.Duration(cfg.Booking.PendingWindowHours)*time.Hour,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingsSvc, log)
	getHostBookings := getHostBookingsHandler.NewHandler(bookingsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getQuote := getQuoteHandler.NewHandler(getQuoteUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Предварительный расчет цены (без создания бронирования)
	api.HandleFunc("/quotes", getQuote.Handle).Methods(http.MethodPost)

	// Снимок доступности слота объявления
	api.HandleFunc("/listings/{listingId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение бронирования хостом
	protected.HandleFunc("/bookings/{id}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление объявлениями (для хостов) ---
	// Список бронирований по объявлениям хоста
	protected.HandleFunc("/hosts/{hostId}/bookings", getHostBookings.Handle).Methods(http.MethodGet)

	// Фоновый проход: автоотмена просроченных pending и завершение прошедших confirmed
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		interval := time.Duration(cfg.Booking.SweepIntervalSeconds) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info("Booking sweep started (interval=%s, pending_window=%dh)",
			interval, cfg.Booking.PendingWindowHours)

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				result, err := sweepBookingsUseCase.Execute(sweepCtx)
				if err != nil {
					log.Error("Booking sweep failed: %v", err)
					continue
				}
				if result.Expired > 0 || result.Completed > 0 {
					log.Info("Booking sweep: expired=%d, completed=%d", result.Expired, result.Completed)
				}
			}
		}
	}()

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновый проход
	stopSweep()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
