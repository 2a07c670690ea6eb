package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	cancelBookingHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/complete_booking"
	deactivateSlotHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/deactivate_slot"
	declareSlotHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/declare_slot"
	getAppointmentHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/get_available_slots"
	getMyAppointmentsHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/get_my_appointments"
	getScheduleConfigHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/get_schedule_config"
	listAppointmentsHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/list_appointments"
	requestBookingHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/request_booking"
	updateScheduleConfigHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/update_schedule_config"
	verifyProjectionHandler "github.com/m04kA/MediLog-SchedulingService/internal/api/handlers/verify_projection"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/config"
	appointmentsService "github.com/m04kA/MediLog-SchedulingService/internal/service/appointments"
	scheduleService "github.com/m04kA/MediLog-SchedulingService/internal/service/schedule"
	slotsService "github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
	cancelBookingUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/cancel_booking"
	completeBookingUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/complete_booking"
	getAvailableSlotsUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/get_available_slots"
	requestBookingUC "github.com/m04kA/MediLog-SchedulingService/internal/usecase/request_booking"
	"github.com/m04kA/MediLog-SchedulingService/pkg/logger"
	"github.com/m04kA/MediLog-SchedulingService/pkg/metrics"
)

type routerDeps struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	requestBooking    *requestBookingUC.UseCase
	cancelBooking     *cancelBookingUC.UseCase
	completeBooking   *completeBookingUC.UseCase
	getAvailableSlots *getAvailableSlotsUC.UseCase

	appointments *appointmentsService.Service
	schedule     *scheduleService.Service
	slots        *slotsService.Service
}

func newRouter(d routerDeps) http.Handler {
	log := d.log

	// Handlers
	requestBooking := requestBookingHandler.NewHandler(d.requestBooking, log)
	cancelBooking := cancelBookingHandler.NewHandler(d.cancelBooking, log)
	completeBooking := completeBookingHandler.NewHandler(d.completeBooking, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(d.getAvailableSlots, log)
	getAppointment := getAppointmentHandler.NewHandler(d.appointments, log)
	upcoming := getMyAppointmentsHandler.NewHandler(d.appointments, getMyAppointmentsHandler.PeriodUpcoming, log)
	past := getMyAppointmentsHandler.NewHandler(d.appointments, getMyAppointmentsHandler.PeriodPast, log)
	listAppointments := listAppointmentsHandler.NewHandler(d.appointments, log)
	verifyProjection := verifyProjectionHandler.NewHandler(d.appointments, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(d.schedule, log)
	updateScheduleConfig := updateScheduleConfigHandler.NewHandler(d.schedule, log)
	declareSlot := declareSlotHandler.NewHandler(d.slots, log)
	deactivateSlot := deactivateSlotHandler.NewHandler(d.slots, log)

	r := mux.NewRouter()

	if d.metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.metrics))
		r.Handle(d.cfg.Metrics.Path, d.metrics.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", d.cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/doctors/{doctorId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/schedule-config", getScheduleConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на приём ---
	protected.HandleFunc("/appointments", requestBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{bookingId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	protected.HandleFunc("/me/appointments/upcoming", upcoming.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/me/appointments/past", past.Handle).Methods(http.MethodGet)

	// --- Расписание врача ---
	protected.HandleFunc("/doctors/{doctorId}/schedule-config", updateScheduleConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/doctors/{doctorId}/slots", declareSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/deactivate", deactivateSlot.Handle).Methods(http.MethodPatch)

	// --- Администрирование ---
	protected.HandleFunc("/admin/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/projections/verify", verifyProjection.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/schedule-config", updateScheduleConfig.Handle).Methods(http.MethodPut)

	c := cors.New(cors.Options{
		AllowedOrigins: d.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderUserID, middleware.HeaderUserRole},
	})

	return c.Handler(r)
}
