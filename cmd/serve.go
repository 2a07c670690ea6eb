package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/MediLog-SchedulingService/internal/config"
	"github.com/m04kA/MediLog-SchedulingService/internal/events"
	ledgerRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/ledger"
	scheduleRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/slot"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
	appointmentsService "github.com/m04kA/MediLog-SchedulingService/internal/service/appointments"
	scheduleService "github.com/m04kA/MediLog-SchedulingService/internal/service/schedule"
	slotsService "github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
	cancelBookingUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/cancel_booking"
	completeBookingUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/complete_booking"
	getAvailableSlotsUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/get_available_slots"
	requestBookingUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/request_booking"
	"github.com/m04kA/MediLog-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/MediLog-SchedulingService/pkg/logger"
	"github.com/m04kA/MediLog-SchedulingService/pkg/metrics"
	"github.com/m04kA/MediLog-SchedulingService/pkg/mq"
	"github.com/m04kA/MediLog-SchedulingService/pkg/txmanager"
)

// notifyTimeout ограничивает публикацию одного события в брокер
const notifyTimeout = 2 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func runServer(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting MediLog-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены). nil-метрики везде допустимы
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	if err := wrappedDB.PingContext(context.Background()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Справочник врачей
	location, err := cfg.Scheduling.Location()
	if err != nil {
		return fmt.Errorf("invalid scheduling timezone: %w", err)
	}
	directory := doctorservice.NewClient(
		cfg.DoctorService.URL,
		time.Duration(cfg.DoctorService.Timeout)*time.Second,
		location,
		log,
	)
	log.Info("Doctor directory client initialized (url=%s, timeout=%ds, timezone=%s)",
		cfg.DoctorService.URL, cfg.DoctorService.Timeout, location)

	// События о записях журнала
	var notifier requestBookingUC.Notifier = events.Nop{}
	if cfg.Events.Enabled {
		publisher, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer publisher.Close()
		notifier = events.NewNotifier(publisher, notifyTimeout, log)
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	ledgerRepository := ledgerRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Сервисы
	slotModel := slotsService.NewService(slotRepository, directory, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, log)
	appointmentsSvc := appointmentsService.NewService(ledgerRepository, slotRepository, txMgr, log)

	// Use cases
	timeout := cfg.Scheduling.OperationTimeout()
	requestBooking := requestBookingUC.NewUseCase(
		slotModel,
		ledgerRepository,
		scheduleSvc,
		directory,
		txMgr,
		notifier,
		metricsCollector,
		timeout,
		log,
	)
	cancelBooking := cancelBookingUC.NewUseCase(slotModel, ledgerRepository, txMgr, notifier, metricsCollector, timeout, log)
	completeBooking := completeBookingUC.NewUseCase(slotModel, ledgerRepository, txMgr, notifier, metricsCollector, timeout, log)
	getAvailableSlots := getAvailableSlotsUC.NewUseCase(slotRepository, scheduleSvc, directory, log)

	router := newRouter(routerDeps{
		cfg:               cfg,
		log:               log,
		metrics:           metricsCollector,
		requestBooking:    requestBooking,
		cancelBooking:     cancelBooking,
		completeBooking:   completeBooking,
		getAvailableSlots: getAvailableSlots,
		appointments:      appointmentsSvc,
		schedule:          scheduleSvc,
		slots:             slotModel,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
