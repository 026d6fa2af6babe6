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

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	blockSlotHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/cancel_booking"
	clearSlotsHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/clear_slots"
	completeBookingHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/complete_booking"
	createResourceHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/create_resource"
	createTemplateHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/create_template"
	deactivateResourceHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/deactivate_resource"
	generateSlotsHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_booking"
	getDailyStatsHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_daily_stats"
	getPolicyHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_policy"
	getResourceHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_resource"
	getResourceBookingsHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_resource_bookings"
	getUserBookingsHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_user_bookings"
	getUserWaitlistHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/get_user_waitlist"
	joinWaitlistHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/join_waitlist"
	listTemplatesHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/list_templates"
	reserveSlotHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/reserve_slot"
	upsertPolicyHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/upsert_policy"
	withdrawWaitlistHandler "github.com/m04kA/GMS-ScheduleService/internal/api/handlers/withdraw_waitlist"
	"github.com/m04kA/GMS-ScheduleService/internal/api/middleware"
	"github.com/m04kA/GMS-ScheduleService/internal/config"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
	analyticsRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/analytics"
	bookingRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
	templateRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/template"
	waitlistRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/waitlist"
	memberServiceClient "github.com/m04kA/GMS-ScheduleService/internal/integrations/memberservice"
	analyticsService "github.com/m04kA/GMS-ScheduleService/internal/service/analytics"
	bookingsService "github.com/m04kA/GMS-ScheduleService/internal/service/bookings"
	scheduleService "github.com/m04kA/GMS-ScheduleService/internal/service/schedule"
	waitlistService "github.com/m04kA/GMS-ScheduleService/internal/service/waitlist"
	cancelBookingUC "github.com/m04kA/GMS-ScheduleService/internal/usecase/cancel_booking"
	generateSlotsUC "github.com/m04kA/GMS-ScheduleService/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/m04kA/GMS-ScheduleService/internal/usecase/get_available_slots"
	promoteWaitlistUC "github.com/m04kA/GMS-ScheduleService/internal/usecase/promote_waitlist"
	reserveSlotUC "github.com/m04kA/GMS-ScheduleService/internal/usecase/reserve_slot"
	"github.com/m04kA/GMS-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/GMS-ScheduleService/pkg/logger"
	"github.com/m04kA/GMS-ScheduleService/pkg/metrics"
	"github.com/m04kA/GMS-ScheduleService/pkg/simpletxmanager"
	"github.com/m04kA/GMS-ScheduleService/pkg/txmanager"
)

// TxManager объединяет методы менеджеров транзакций, используемые usecase-слоем
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting GMS-ScheduleService...")
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

	// Применяем миграции
	if err := runMigrations(db, cfg.Database.MigrationsPath, cfg.Database.DBName); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations applied (path=%s)", cfg.Database.MigrationsPath)

	// Инициализируем интеграционного клиента MemberService
	memberClient := memberServiceClient.NewClient(
		cfg.MemberService.URL,
		time.Duration(cfg.MemberService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (MemberService=%s timeout=%ds)",
		cfg.MemberService.URL, cfg.MemberService.Timeout)

	// Публикация событий бронирований (пустой URL выключает)
	publisher := events.NewPublisher(cfg.Events.URL, log)
	if cfg.Events.URL != "" {
		log.Info("Booking events publisher initialized (broker=%s)", cfg.Events.URL)
	} else {
		log.Info("Booking events publishing disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		resourceRepository  *resourceRepo.Repository
		templateRepository  *templateRepo.Repository
		slotRepository      *slotRepo.Repository
		bookingRepository   *bookingRepo.Repository
		waitlistRepository  *waitlistRepo.Repository
		analyticsRepository *analyticsRepo.Repository
		txMgr               TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		templateRepository = templateRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		analyticsRepository = analyticsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		resourceRepository = resourceRepo.NewRepository(db)
		templateRepository = templateRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		analyticsRepository = analyticsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		resourceRepository,
		templateRepository,
		slotRepository,
		bookingRepository,
		txMgr,
		log,
	)
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		resourceRepository,
		log,
	)
	analyticsSvc := analyticsService.NewService(
		analyticsRepository,
		resourceRepository,
		log,
	)

	// Инициализируем use cases
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		resourceRepository,
		analyticsRepository,
		memberClient,
		publisher,
		txMgr,
		log,
	)

	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		slotRepository,
		resourceRepository,
		templateRepository,
		analyticsRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		resourceRepository,
		memberClient,
		txMgr,
		log,
	)

	// Продвижение листа ожидания повторно входит в reserve-путь,
	// отдельной ветки записи у него нет
	promoteWaitlistUseCase := promoteWaitlistUC.NewUseCase(
		slotRepository,
		waitlistRepository,
		reserveSlotUseCase,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		resourceRepository,
		analyticsRepository,
		promoteWaitlistUseCase,
		publisher,
		txMgr,
		log,
	)

	// Инициализируем handlers
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getResourceBookings := getResourceBookingsHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	createResource := createResourceHandler.NewHandler(scheduleSvc, log)
	getResource := getResourceHandler.NewHandler(scheduleSvc, log)
	deactivateResource := deactivateResourceHandler.NewHandler(scheduleSvc, log)
	createTemplate := createTemplateHandler.NewHandler(scheduleSvc, log)
	listTemplates := listTemplatesHandler.NewHandler(scheduleSvc, log)
	upsertPolicy := upsertPolicyHandler.NewHandler(scheduleSvc, log)
	getPolicy := getPolicyHandler.NewHandler(scheduleSvc, log)
	clearSlots := clearSlotsHandler.NewHandler(scheduleSvc, log)
	blockSlot := blockSlotHandler.NewHandler(scheduleSvc, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(waitlistSvc, log)
	withdrawWaitlist := withdrawWaitlistHandler.NewHandler(waitlistSvc, log)
	getUserWaitlist := getUserWaitlistHandler.NewHandler(waitlistSvc, log)
	getDailyStats := getDailyStatsHandler.NewHandler(analyticsSvc, log)

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

	// Карточка ресурса
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)

	// Расписание слотов ресурса
	api.HandleFunc("/resources/{resourceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Политика отмены ресурса
	api.HandleFunc("/resources/{resourceId}/policy", getPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Бронирование слота
	protected.HandleFunc("/bookings", reserveSlot.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования с расчётом возврата
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Отметка посещения
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist/{entryId}", withdrawWaitlist.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/users/{userId}/waitlist", getUserWaitlist.Handle).Methods(http.MethodGet)

	// --- Управление ресурсами (для администраторов) ---
	protected.HandleFunc("/resources", createResource.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/deactivate", deactivateResource.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/resources/{resourceId}/templates", createTemplate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/templates", listTemplates.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/policy", upsertPolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId}/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/slots", clearSlots.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/resources/{resourceId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/stats", getDailyStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/slots/{slotId}/block", blockSlot.HandleBlock).Methods(http.MethodPatch)
	protected.HandleFunc("/slots/{slotId}/unblock", blockSlot.HandleUnblock).Methods(http.MethodPatch)

	// Фоновый свип листа ожидания
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	go promoteWaitlistUseCase.RunSweeper(
		sweeperCtx,
		time.Duration(cfg.Waitlist.SweepIntervalSeconds)*time.Second,
	)
	log.Info("Waitlist sweeper started (interval=%ds)", cfg.Waitlist.SweepIntervalSeconds)

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

	// Останавливаем фоновый свип
	stopSweeper()

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

func runMigrations(db *sql.DB, path, dbName string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("init migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, dbName, driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
