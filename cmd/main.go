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

	approveBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/cancel_booking"
	checkCapacityHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/check_capacity"
	createBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/create_booking"
	createResourceHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/create_resource"
	getBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_booking"
	getResourceHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_resource"
	getResourceBookingsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_resource_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_user_bookings"
	listResourcesHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/list_resources"
	rejectBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/reject_booking"
	updateBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/update_booking"
	updateResourceHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/update_resource"
	validateBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/validate_booking"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceBookingService/internal/config"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	limitRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/limit"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	userServiceClient "github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings"
	resourcesService "github.com/m04kA/SMC-ResourceBookingService/internal/service/resources"
	checkCapacityUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/check_capacity"
	createBookingUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_booking"
	updateBookingUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/update_booking"
	validateBookingUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/logger"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/txmanager"
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

	log.Info("Starting SMC-ResourceBookingService...")
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

	// Инициализируем интеграционного клиента
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Системные квоты по умолчанию из конфигурации
	defaultQuotas := domain.DefaultQuotas{
		MaxHoursPerDay:        cfg.Quotas.DefaultMaxHoursPerDay,
		MaxHoursPerWeek:       cfg.Quotas.DefaultMaxHoursPerWeek,
		MaxHoursPerMonth:      cfg.Quotas.DefaultMaxHoursPerMonth,
		MaxConcurrentBookings: cfg.Quotas.DefaultMaxConcurrentBookings,
		MaxBookingsPerDay:     cfg.Quotas.DefaultMaxBookingsPerDay,
	}

	// Инициализируем репозитории и сервисы (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		resourceRepository *resourceRepo.Repository
		limitRepository    *limitRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		limitRepository = limitRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		limitRepository = limitRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userClient,
		&bookingsService.RealTimeProvider{},
		log,
	)
	resourceSvc := resourcesService.NewService(
		resourceRepository,
		userClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		limitRepository,
		userClient,
		txMgr,
		defaultQuotas,
		log,
	)

	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		limitRepository,
		userClient,
		txMgr,
		defaultQuotas,
		log,
	)

	validateBookingUseCase := validateBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		limitRepository,
		userClient,
		txMgr,
		defaultQuotas,
		log,
	)

	checkCapacityUseCase := checkCapacityUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, log)
	checkCapacity := checkCapacityHandler.NewHandler(checkCapacityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getResourceBookings := getResourceBookingsHandler.NewHandler(bookingSvc, log)
	getResource := getResourceHandler.NewHandler(resourceSvc, log)
	listResources := listResourcesHandler.NewHandler(resourceSvc, log)
	createResource := createResourceHandler.NewHandler(resourceSvc, log)
	updateResource := updateResourceHandler.NewHandler(resourceSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
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

	// Каталог ресурсов
	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)

	// Карточка ресурса
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)

	// Свободная ёмкость ресурса на интервале
	api.HandleFunc("/resources/{resourceId}/capacity", checkCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Предварительная проверка квот без создания
	protected.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Изменение бронирования
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение бронирования (администратор)
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)

	// Отклонение бронирования (администратор)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление ресурсами (для администраторов) ---
	// Список бронирований ресурса
	protected.HandleFunc("/resources/{resourceId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)

	// Создание ресурса
	protected.HandleFunc("/resources", createResource.Handle).Methods(http.MethodPost)

	// Обновление ресурса
	protected.HandleFunc("/resources/{resourceId}", updateResource.Handle).Methods(http.MethodPut)

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
