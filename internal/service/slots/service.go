package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/slot"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots/models"
)

// Service модель слотов: резервирование, освобождение и проверка годности
type Service struct {
	slotRepo     SlotRepository
	directory    DoctorDirectory
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, directory DoctorDirectory, logger Logger) *Service {
	return &Service{
		slotRepo:     slotRepo,
		directory:    directory,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Get слот по ID. Внутри транзакции строка слота блокируется до её завершения
func (s *Service) Get(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return slot, nil
}

// TryReserve занимает одно место; ErrSlotFull, если мест нет или слот снят
func (s *Service) TryReserve(ctx context.Context, slotID int64) error {
	if err := s.slotRepo.Reserve(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotFull) {
			return ErrSlotFull
		}
		return fmt.Errorf("%w: TryReserve - repository error: %v", ErrInternal, err)
	}
	return nil
}

// Release освобождает одно место
func (s *Service) Release(ctx context.Context, slotID int64) error {
	if err := s.slotRepo.Release(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}
	return nil
}

// IsValid проверяет, что на слот можно записаться в момент at.
// Возвращает код причины отказа или ReasonNone
func (s *Service) IsValid(slot *domain.Slot, at time.Time, availability *domain.Availability) domain.ReasonCode {
	return ReasonFor(slot.Validate(at, availability))
}

// ReasonFor код причины для ошибки проверки слота
func ReasonFor(err error) domain.ReasonCode {
	switch {
	case err == nil:
		return domain.ReasonNone
	case errors.Is(err, domain.ErrSlotInactive):
		return domain.ReasonSlotInactive
	case errors.Is(err, domain.ErrSlotInPast):
		return domain.ReasonSlotInPast
	case errors.Is(err, domain.ErrOutsideAvailability):
		return domain.ReasonOutsideAvailability
	case errors.Is(err, domain.ErrSlotFull):
		return domain.ReasonSlotFull
	default:
		return domain.ReasonSlotNotFound
	}
}

// Declare объявляет слот врача вручную
func (s *Service) Declare(ctx context.Context, req *models.DeclareSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Declare: doctor=%d %s..%s capacity=%d by %s=%d",
		req.DoctorID, req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339),
		req.Capacity, req.Actor.Role, req.Actor.ParticipantID)

	if err := validateDeclare(req); err != nil {
		s.logger.Warn("Declare: validation failed: %v", err)
		return nil, err
	}

	if !req.Actor.CanManageSlotsOf(req.DoctorID) {
		s.logger.Warn("Declare: %s=%d may not manage slots of doctor=%d",
			req.Actor.Role, req.Actor.ParticipantID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	availability, _, err := s.directory.GetAvailability(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorservice.ErrDoctorNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	slot := req.ToDomainSlot()
	if err := slot.Validate(s.timeProvider.Now(), availability); err != nil {
		s.logger.Warn("Declare: slot rejected for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %s", ErrInvalidSlot, ReasonFor(err))
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
			return nil, ErrSlotAlreadyExists
		}
		s.logger.Error("Declare: repository error: %v", err)
		return nil, fmt.Errorf("%w: Declare - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Declare: created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// Deactivate снимает слот с расписания. Подтверждённые записи остаются в силе
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, slotID int64) (*models.SlotResponse, error) {
	s.logger.Info("Deactivate: slot=%d by %s=%d", slotID, actor.Role, actor.ParticipantID)

	slot, err := s.Get(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageSlotsOf(slot.DoctorID) {
		s.logger.Warn("Deactivate: %s=%d may not manage slots of doctor=%d",
			actor.Role, actor.ParticipantID, slot.DoctorID)
		return nil, ErrAccessDenied
	}

	if err := s.slotRepo.SetActive(ctx, slotID, false); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	slot.Active = false
	return models.FromDomainSlot(slot), nil
}

func validateDeclare(req *models.DeclareSlotRequest) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() || !req.StartsAt.Before(req.EndsAt) {
		return fmt.Errorf("%w: startsAt must be before endsAt", ErrInvalidInput)
	}
	duration := int(req.EndsAt.Sub(req.StartsAt) / time.Minute)
	if duration < domain.MinSlotDurationMinutes || duration > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if req.Capacity < domain.MinSlotCapacity || req.Capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}
	return nil
}
