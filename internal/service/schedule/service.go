package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule/models"
)

const (
	levelDoctor  = "doctor"
	levelGlobal  = "global"
	levelDefault = "default"
)

// Service сервис конфигурации расписания врачей
type Service struct {
	configRepo ConfigRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(configRepo ConfigRepository, logger Logger) *Service {
	return &Service{
		configRepo: configRepo,
		logger:     logger,
	}
}

// Effective действующая конфигурация врача.
// Приоритет: врач > глобальная > значения по умолчанию
func (s *Service) Effective(ctx context.Context, doctorID int64) (*domain.ScheduleConfig, error) {
	config, err := s.configRepo.GetConfigWithHierarchy(ctx, doctorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			return domain.DefaultScheduleConfig(), nil
		}
		s.logger.Error("Effective: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
	}
	return config, nil
}

// Get действующая конфигурация врача. Публичный метод
func (s *Service) Get(ctx context.Context, doctorID int64) (*models.ConfigResponse, error) {
	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	config, err := s.Effective(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	level := s.getConfigLevel(config)
	s.logger.Info("Get: config for doctor=%d (level: %s)", doctorID, level)
	return models.FromDomainConfig(config, level), nil
}

// Update изменяет конфигурацию врача (или глобальную).
// Врачу доступна только своя конфигурация, глобальная - только администратору
func (s *Service) Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: config doctor=%v by %s=%d", req.DoctorID, req.Actor.Role, req.Actor.ParticipantID)

	if !s.canUpdate(req) {
		s.logger.Warn("Update: %s=%d may not change config doctor=%v",
			req.Actor.Role, req.Actor.ParticipantID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	// 1. Берём текущую конфигурацию этого уровня или наследуемую
	var base *domain.ScheduleConfig
	var err error
	if req.DoctorID != nil {
		base, err = s.Effective(ctx, *req.DoctorID)
	} else {
		base, err = s.configRepo.GetByDoctor(ctx, nil)
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			base, err = domain.DefaultScheduleConfig(), nil
		}
	}
	if err != nil {
		s.logger.Error("Update: failed to load current config: %v", err)
		return nil, fmt.Errorf("%w: Update - load current config: %v", ErrInternal, err)
	}

	// 2. Применяем изменения к копии и валидируем
	updated := *base
	updated.ID = 0
	updated.DoctorID = req.DoctorID
	req.ApplyToConfig(&updated)

	if err := validateConfigData(&updated); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.configRepo.Upsert(ctx, &updated)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully saved config id=%d", saved.ID)
	return models.FromDomainConfig(saved, s.getConfigLevel(saved)), nil
}

func (s *Service) canUpdate(req *models.UpdateConfigRequest) bool {
	if req.DoctorID == nil {
		return req.Actor.Can(domain.CapManageAnySlots)
	}
	return req.Actor.CanManageSlotsOf(*req.DoctorID)
}

// validateConfigData валидирует параметры конфигурации
func validateConfigData(c *domain.ScheduleConfig) error {
	if c.SlotDurationMinutes < domain.MinSlotDurationMinutes || c.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if c.SlotCapacity < domain.MinSlotCapacity || c.SlotCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: slotCapacity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if c.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

// getConfigLevel уровень конфигурации для ответа и логов
func (s *Service) getConfigLevel(config *domain.ScheduleConfig) string {
	if config.ID == 0 {
		return levelDefault
	}
	if config.IsGlobalConfig() {
		return levelGlobal
	}
	return levelDoctor
}
