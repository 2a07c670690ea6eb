package request_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	ledgerRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/ledger"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
)

// UseCase движок записи на приём: проверка слота, резервирование места и запись в журнал
type UseCase struct {
	slots          SlotModel
	ledger         LedgerRepository
	configProvider ScheduleConfigProvider
	directory      DoctorDirectory
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	timeout        time.Duration
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// timeout ограничивает всю операцию, включая ожидание блокировки слота
func NewUseCase(
	slotModel SlotModel,
	ledger LedgerRepository,
	configProvider ScheduleConfigProvider,
	directory DoctorDirectory,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		slots:          slotModel,
		ledger:         ledger,
		configProvider: configProvider,
		directory:      directory,
		txManager:      txManager,
		notifier:       notifier,
		metrics:        metrics,
		timeout:        timeout,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет запрос на запись.
// Резервирование места и запись CONFIRMED фиксируются одной транзакцией.
// Отказы (REJECTED_INVALID, REJECTED_CONFLICT) тоже фиксируются в журнале,
// после чего возвращается *RejectionError
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: doctor=%d, patient=%d, slot=%d by %s=%d",
		req.DoctorID, req.PatientID, req.SlotID, req.Actor.Role, req.Actor.ParticipantID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права
	if !req.Actor.CanBookFor(req.PatientID) {
		uc.logger.Warn("RequestBooking: %s=%d may not book for patient=%d",
			req.Actor.Role, req.Actor.ParticipantID, req.PatientID)
		return nil, ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	now := uc.timeProvider.Now()

	// 3. Врач и его рабочие часы
	rejectReason := domain.ReasonNone
	availability, doctor, err := uc.directory.GetAvailability(ctx, req.DoctorID)
	if err != nil {
		if !errors.Is(err, doctorservice.ErrDoctorNotFound) {
			uc.logger.Error("RequestBooking: doctor directory failed for doctor=%d: %v", req.DoctorID, err)
			return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
		}
		rejectReason = domain.ReasonDoctorNotFound
	}

	// 4. Конфигурация расписания (окно записи)
	config, err := uc.configProvider.Effective(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("RequestBooking: failed to get schedule config: %v", err)
		return nil, uc.persistenceError(ctx, err)
	}

	details := buildDetails(req, doctor)

	var (
		result   *domain.BookingRecord
		replayed bool
	)

	// 5. Проверка, резервирование и запись в журнал - одна транзакция.
	// Строка слота блокируется до её завершения
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		result, replayed = nil, false

		reason := rejectReason
		var slot *domain.Slot

		if reason == domain.ReasonNone {
			found, err := uc.slots.Get(txCtx, req.SlotID)
			switch {
			case errors.Is(err, slots.ErrSlotNotFound):
				reason = domain.ReasonSlotNotFound
			case err != nil:
				return fmt.Errorf("get slot: %w", err)
			default:
				slot = found
			}
		}

		if slot != nil {
			details.SlotStartsAt = &slot.StartsAt
			details.SlotEndsAt = &slot.EndsAt

			if slot.DoctorID != req.DoctorID {
				reason = domain.ReasonDoctorMismatch
			}
		}

		// 5.1. Повтор запроса с тем же ключом doctorId+patientId+slotId возвращает
		// уже подтверждённую запись, даже если слот с тех пор перестал быть доступен
		if reason == domain.ReasonNone {
			existing, err := uc.ledger.FindActiveBooking(txCtx, slot.ID, req.PatientID)
			if err == nil {
				result, replayed = existing, true
				return nil
			}
			if !errors.Is(err, ledgerRepo.ErrRecordNotFound) {
				return fmt.Errorf("find active booking: %w", err)
			}

			reason = uc.slots.IsValid(slot, now, availability)
			if reason == domain.ReasonNone {
				reason = config.CheckBookingWindow(slot.StartsAt, now)
			}
		}

		// 5.2. Слот не годится - фиксируем отказ
		if reason != domain.ReasonNone {
			rec, err := uc.append(txCtx, domain.OutcomeRejectedInvalid, reason, req, now, details)
			if err != nil {
				return err
			}
			result = rec
			return nil
		}

		// 5.3. Резервируем место
		if err := uc.slots.TryReserve(txCtx, slot.ID); err != nil {
			if !errors.Is(err, slots.ErrSlotFull) {
				return fmt.Errorf("reserve slot: %w", err)
			}
			rec, err := uc.append(txCtx, domain.OutcomeRejectedConflict, domain.ReasonSlotFull, req, now, details)
			if err != nil {
				return err
			}
			result = rec
			return nil
		}

		// 5.4. Подтверждаем. Ошибка откатывает транзакцию вместе с резервированием
		rec, err := uc.append(txCtx, domain.OutcomeConfirmed, domain.ReasonNone, req, now, details)
		if err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		uc.logger.Error("RequestBooking: transaction failed for slot=%d, patient=%d: %v", req.SlotID, req.PatientID, err)
		return nil, uc.persistenceError(ctx, err)
	}

	if replayed {
		uc.logger.Info("RequestBooking: replayed existing booking=%s for key=%s",
			result.BookingID, result.IdempotencyKey)
		return fromRecord(result, true), nil
	}

	uc.notifier.Notify(ctx, result)
	if uc.metrics != nil {
		uc.metrics.RecordBookingOutcome(string(result.Outcome))
	}

	if result.Outcome.IsRejection() {
		uc.logger.Warn("RequestBooking: %s (%s) booking=%s slot=%d patient=%d",
			result.Outcome, result.ReasonCode, result.BookingID, req.SlotID, req.PatientID)
		return nil, rejection(result)
	}

	uc.logger.Info("RequestBooking: confirmed booking=%s slot=%d patient=%d", result.BookingID, req.SlotID, req.PatientID)
	return fromRecord(result, false), nil
}

func (uc *UseCase) append(
	ctx context.Context,
	outcome domain.Outcome,
	reason domain.ReasonCode,
	req *Request,
	now time.Time,
	details domain.BookingDetails,
) (*domain.BookingRecord, error) {
	rec := domain.NewOpeningRecord(outcome, reason, req.DoctorID, req.PatientID, req.SlotID, req.Actor, now, details)
	stored, err := uc.ledger.Append(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("append %s: %w", outcome, err)
	}
	return stored, nil
}

func (uc *UseCase) persistenceError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out after %s: %v", ErrPersistence, uc.timeout, err)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func buildDetails(req *Request, doctor *doctorservice.Doctor) domain.BookingDetails {
	details := domain.BookingDetails{
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		Disease:      req.Disease,
		ClinicalNote: req.ClinicalNote,
	}
	if doctor != nil {
		name, hospital := doctor.Name, doctor.HospitalName
		details.DoctorName = &name
		details.HospitalName = &hospital
	}
	return details
}
