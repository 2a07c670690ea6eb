package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
)

// UseCase use case для получения свободных слотов врача на день.
// Слоты из рабочих часов материализуются при первом обращении
type UseCase struct {
	slotRepo       SlotRepository
	configProvider ScheduleConfigProvider
	directory      DoctorDirectory
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	configProvider ScheduleConfigProvider,
	directory DoctorDirectory,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		configProvider: configProvider,
		directory:      directory,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s", req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Рабочие часы врача
	availability, doctor, err := uc.directory.GetAvailability(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorservice.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	loc := availability.Location
	if loc == nil {
		loc = time.UTC
	}
	day := startOfDay(req.Date, loc)

	// 3. Конфигурация нарезки
	config, err := uc.configProvider.Effective(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// 4. Валидация даты с учетом конфигурации
	if err := validateDate(day, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:     day,
		DoctorID: req.DoctorID,
		Slots:    []Slot{},
	}
	if doctor != nil {
		response.DoctorName = doctor.Name
	}

	notBefore := now.Add(time.Duration(config.MinBookingNoticeMinutes) * time.Minute)

	// 5. Материализуем слоты рабочего дня
	if openAt, closeAt, ok := availability.Hours(day); ok {
		generated := generateSlots(req.DoctorID, openAt, closeAt, config.SlotDuration(), config.SlotCapacity, notBefore)
		if err := uc.slotRepo.Materialize(ctx, generated); err != nil {
			uc.logger.Error("GetAvailableSlots: failed to materialize %d slots: %v", len(generated), err)
			return nil, fmt.Errorf("%w: failed to materialize slots: %v", ErrInternal, err)
		}
	} else {
		uc.logger.Info("GetAvailableSlots: doctor=%d does not work on %s", req.DoctorID, day.Format(domain.DateFormat))
	}

	// 6. Все активные слоты дня, включая объявленные вручную
	slots, err := uc.slotRepo.ListByDoctor(ctx, domain.SlotsFilter{
		DoctorID: req.DoctorID,
		From:     day,
		To:       day.AddDate(0, 0, 1),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	response.Slots = toResponseSlots(slots, notBefore)

	uc.logger.Info("GetAvailableSlots: %d slots for doctor=%d, date=%s",
		len(response.Slots), req.DoctorID, day.Format(domain.DateFormat))

	return response, nil
}
