package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	ledgerRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/ledger"
)

// UseCase отмена записи на приём: запись CANCELLED и освобождение места в одной транзакции
type UseCase struct {
	slots        SlotModel
	ledger       LedgerRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotModel SlotModel,
	ledger LedgerRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		slots:        slotModel,
		ledger:       ledger,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeout:      timeout,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отменяет подтверждённую запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%s by %s=%d", req.BookingID, req.Actor.Role, req.Actor.ParticipantID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	now := uc.timeProvider.Now()

	var result *domain.BookingRecord

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Открывающая запись: по ней находим слот и участников
		history, err := uc.loadHistory(txCtx, req)
		if err != nil {
			return err
		}
		opening := history[0]

		if !req.Actor.CanCancel(opening.DoctorID, opening.PatientID) {
			uc.logger.Warn("CancelBooking: %s=%d may not cancel booking=%s (doctor=%d, patient=%d)",
				req.Actor.Role, req.Actor.ParticipantID, req.BookingID, opening.DoctorID, opening.PatientID)
			return ErrForbidden
		}

		// 2. Блокируем слот и перечитываем историю под блокировкой
		if _, err := uc.slots.Get(txCtx, opening.SlotID); err != nil {
			return fmt.Errorf("lock slot %d: %w", opening.SlotID, err)
		}

		history, err = uc.loadHistory(txCtx, req)
		if err != nil {
			return err
		}

		chain, err := domain.StatusChain(history)
		if err != nil {
			return fmt.Errorf("replay booking %s: %w", req.BookingID, err)
		}
		if current := chain[len(chain)-1]; !domain.CanTransition(current, domain.StatusCancelled) {
			uc.logger.Warn("CancelBooking: booking=%s is %s", req.BookingID, current)
			return fmt.Errorf("%w: booking is %s", ErrCannotCancel, current)
		}

		// 3. Запись CANCELLED и освобождение места
		rec := opening.FollowUp(domain.OutcomeCancelled, domain.CancelReasonFor(req.Actor.Role), req.Actor, now)
		stored, err := uc.ledger.Append(txCtx, rec)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrDuplicateRecord) {
				return fmt.Errorf("%w: booking already closed", ErrCannotCancel)
			}
			return fmt.Errorf("append CANCELLED: %w", err)
		}

		if err := uc.slots.Release(txCtx, opening.SlotID); err != nil {
			return fmt.Errorf("release slot %d: %w", opening.SlotID, err)
		}

		result = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrCannotCancel) {
			return nil, err
		}
		uc.logger.Error("CancelBooking: transaction failed for booking=%s: %v", req.BookingID, err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s: %v", ErrPersistence, uc.timeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.notifier.Notify(ctx, result)
	if uc.metrics != nil {
		uc.metrics.RecordBookingOutcome(string(result.Outcome))
	}

	uc.logger.Info("CancelBooking: cancelled booking=%s, slot=%d released", result.BookingID, result.SlotID)

	return &Response{
		BookingID:   result.BookingID,
		RecordID:    result.RecordID,
		SlotID:      result.SlotID,
		Status:      domain.StatusCancelled,
		ReasonCode:  result.ReasonCode,
		CancelledAt: result.RequestedAt,
	}, nil
}

// loadHistory история бронирования; NotFound, если оно не было подтверждено
func (uc *UseCase) loadHistory(ctx context.Context, req *Request) ([]*domain.BookingRecord, error) {
	history, err := uc.ledger.History(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrRecordNotFound) {
			uc.logger.Warn("CancelBooking: booking=%s not found", req.BookingID)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load history: %w", err)
	}

	if history[0].Outcome != domain.OutcomeConfirmed {
		uc.logger.Warn("CancelBooking: booking=%s was never confirmed (%s)", req.BookingID, history[0].Outcome)
		return nil, ErrNotFound
	}

	return history, nil
}
