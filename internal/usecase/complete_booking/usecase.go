package complete_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	ledgerRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/ledger"
)

// UseCase отметка о состоявшемся приёме. Место в слоте не освобождается
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

// Execute переводит подтверждённую запись в COMPLETED
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteBooking: booking=%s by %s=%d", req.BookingID, req.Actor.Role, req.Actor.ParticipantID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteBooking: validation failed: %v", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	now := uc.timeProvider.Now()

	var result *domain.BookingRecord

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		history, err := uc.ledger.History(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load history: %w", err)
		}
		opening := history[0]
		if opening.Outcome != domain.OutcomeConfirmed {
			return ErrNotFound
		}

		if !req.Actor.CanComplete(opening.DoctorID) {
			uc.logger.Warn("CompleteBooking: %s=%d may not complete booking=%s of doctor=%d",
				req.Actor.Role, req.Actor.ParticipantID, req.BookingID, opening.DoctorID)
			return ErrForbidden
		}

		// Блокировка слота упорядочивает завершение с отменой той же записи
		slot, err := uc.slots.Get(txCtx, opening.SlotID)
		if err != nil {
			return fmt.Errorf("lock slot %d: %w", opening.SlotID, err)
		}
		if now.Before(slot.StartsAt) {
			return fmt.Errorf("%w: appointment starts at %s", ErrCannotComplete, slot.StartsAt.Format(time.RFC3339))
		}

		history, err = uc.ledger.History(txCtx, req.BookingID)
		if err != nil {
			return fmt.Errorf("reload history: %w", err)
		}
		chain, err := domain.StatusChain(history)
		if err != nil {
			return fmt.Errorf("replay booking %s: %w", req.BookingID, err)
		}
		if current := chain[len(chain)-1]; !domain.CanTransition(current, domain.StatusCompleted) {
			return fmt.Errorf("%w: booking is %s", ErrCannotComplete, current)
		}

		rec := opening.FollowUp(domain.OutcomeCompleted, domain.ReasonVisitCompleted, req.Actor, now)
		stored, err := uc.ledger.Append(txCtx, rec)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrDuplicateRecord) {
				return fmt.Errorf("%w: booking already closed", ErrCannotComplete)
			}
			return fmt.Errorf("append COMPLETED: %w", err)
		}

		result = stored
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrCannotComplete):
			uc.logger.Warn("CompleteBooking: booking=%s: %v", req.BookingID, err)
			return nil, err
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			uc.logger.Error("CompleteBooking: timed out for booking=%s: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: timed out after %s: %v", ErrPersistence, uc.timeout, err)
		default:
			uc.logger.Error("CompleteBooking: transaction failed for booking=%s: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	uc.notifier.Notify(ctx, result)
	if uc.metrics != nil {
		uc.metrics.RecordBookingOutcome(string(result.Outcome))
	}

	uc.logger.Info("CompleteBooking: completed booking=%s", result.BookingID)

	return &Response{
		BookingID:   result.BookingID,
		RecordID:    result.RecordID,
		SlotID:      result.SlotID,
		Status:      domain.StatusCompleted,
		CompletedAt: result.RequestedAt,
	}, nil
}
