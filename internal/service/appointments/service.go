package appointments

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	ledgerRepo "github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/ledger"
	"github.com/m04kA/MediLog-SchedulingService/internal/projection"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

// Service чтение записей на приём. Состояние каждый раз строится заново из журнала,
// собственных данных сервис не хранит
type Service struct {
	ledger       LedgerReader
	slots        SlotReader
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей на приём
func NewService(ledger LedgerReader, slots SlotReader, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		ledger:       ledger,
		slots:        slots,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// UpcomingFor предстоящие приёмы участника: начало не раньше asOf, по возрастанию времени
func (s *Service) UpcomingFor(ctx context.Context, req *models.ParticipantRequest) (*models.AppointmentListResponse, error) {
	list, err := s.participantAppointments(ctx, "UpcomingFor", req, true)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointmentList(list), nil
}

// PastFor прошедшие приёмы участника: начало раньше asOf, сначала самые поздние
func (s *Service) PastFor(ctx context.Context, req *models.ParticipantRequest) (*models.AppointmentListResponse, error) {
	list, err := s.participantAppointments(ctx, "PastFor", req, false)
	if err != nil {
		return nil, err
	}
	slices.Reverse(list)
	return models.FromDomainAppointmentList(list), nil
}

func (s *Service) participantAppointments(
	ctx context.Context,
	op string,
	req *models.ParticipantRequest,
	upcoming bool,
) ([]*domain.Appointment, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = s.timeProvider.Now()
	}

	s.logger.Info("%s: %s=%d asOf=%s", op, req.Actor.Role, req.Actor.ParticipantID, asOf.Format(time.RFC3339))

	if req.Actor.ParticipantID <= 0 {
		return nil, fmt.Errorf("%w: participant id must be positive", ErrInvalidInput)
	}

	id := req.Actor.ParticipantID
	var filter domain.RecordsFilter
	switch req.Actor.Role {
	case domain.RolePatient:
		filter.PatientID = &id
	case domain.RoleDoctor:
		filter.DoctorID = &id
	default:
		s.logger.Warn("%s: role %s has no own appointments", op, req.Actor.Role)
		return nil, fmt.Errorf("%w: only patients and doctors have own appointments", ErrInvalidInput)
	}

	p, err := projection.Build(s.ledger.RecordsFor(ctx, filter))
	if err != nil {
		s.logger.Error("%s: failed to build projection: %v", op, err)
		return nil, fmt.Errorf("%w: %s - build projection: %v", ErrInternal, op, err)
	}

	list := p.Appointments(func(a *domain.Appointment) bool {
		if !a.Status.IsActive() {
			return false
		}
		return a.StartsAt.Before(asOf) != upcoming
	})

	s.logger.Info("%s: %d appointments for %s=%d", op, len(list), req.Actor.Role, id)
	return list, nil
}

// ListAll все записи на приём с фильтрацией. Только для администратора
func (s *Service) ListAll(ctx context.Context, req *models.ListAllRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListAll: doctor=%v, patient=%v, status=%v by %s=%d",
		req.DoctorID, req.PatientID, req.Status, req.Actor.Role, req.Actor.ParticipantID)

	if !req.Actor.Can(domain.CapViewAll) {
		s.logger.Warn("ListAll: access denied for %s=%d", req.Actor.Role, req.Actor.ParticipantID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		status = &st
	}

	p, err := projection.Build(s.ledger.RecordsFor(ctx, domain.RecordsFilter{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
	}))
	if err != nil {
		s.logger.Error("ListAll: failed to build projection: %v", err)
		return nil, fmt.Errorf("%w: ListAll - build projection: %v", ErrInternal, err)
	}

	list := p.Appointments(func(a *domain.Appointment) bool {
		return status == nil || a.Status == *status
	})

	s.logger.Info("ListAll: %d appointments", len(list))
	return models.FromDomainAppointmentList(list), nil
}

// Get запись на приём с цепочкой статусов и записями журнала.
// Видна её пациенту, её врачу и администратору
func (s *Service) Get(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*models.AppointmentDetailsResponse, error) {
	s.logger.Info("Get: booking=%s by %s=%d", bookingID, actor.Role, actor.ParticipantID)

	history, err := s.ledger.History(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrRecordNotFound) {
			s.logger.Warn("Get: booking=%s not found", bookingID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Get: repository error for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if !actor.CanView(history[0].DoctorID, history[0].PatientID) {
		s.logger.Warn("Get: access denied for %s=%d to booking=%s", actor.Role, actor.ParticipantID, bookingID)
		return nil, ErrAccessDenied
	}

	chain, err := domain.StatusChain(history)
	if err != nil {
		s.logger.Error("Get: broken chain for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Get - %v", ErrInternal, err)
	}

	p, err := projection.Build(recordsOf(history))
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build projection: %v", ErrInternal, err)
	}
	appt, _ := p.Get(bookingID)

	resp := &models.AppointmentDetailsResponse{
		Appointment: *models.FromDomainAppointment(appt),
		StatusChain: make([]string, 0, len(chain)),
		Records:     make([]models.RecordResponse, 0, len(history)),
	}
	for _, st := range chain {
		resp.StatusChain = append(resp.StatusChain, string(st))
	}
	for _, rec := range history {
		resp.Records = append(resp.Records, models.FromDomainRecord(rec))
	}

	return resp, nil
}

// VerifyReplay перестраивает проекцию всего журнала дважды и сравнивает результаты,
// а также сверяет число активных бронирований со счётчиками слотов.
// Все чтения идут из одного снимка (транзакция только для чтения)
func (s *Service) VerifyReplay(ctx context.Context, actor domain.Actor) (*models.ReplayReport, error) {
	s.logger.Info("VerifyReplay: requested by %s=%d", actor.Role, actor.ParticipantID)

	if !actor.Can(domain.CapVerifyLedger) {
		s.logger.Warn("VerifyReplay: access denied for %s=%d", actor.Role, actor.ParticipantID)
		return nil, ErrAccessDenied
	}

	var report *models.ReplayReport
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		report, err = s.verifyReplay(txCtx)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("VerifyReplay: read snapshot failed: %v", err)
		return nil, fmt.Errorf("%w: VerifyReplay - read snapshot: %v", ErrInternal, err)
	}

	if !report.Deterministic || len(report.SlotMismatches) > 0 {
		s.logger.Warn("VerifyReplay: %d diverged bookings, %d slot mismatches",
			len(report.Diverged), len(report.SlotMismatches))
	} else {
		s.logger.Info("VerifyReplay: %d records, %d bookings, projection is consistent", report.Records, report.Bookings)
	}

	return report, nil
}

func (s *Service) verifyReplay(ctx context.Context) (*models.ReplayReport, error) {
	first, err := projection.Build(s.ledger.RecordsFor(ctx, domain.RecordsFilter{}))
	if err != nil {
		s.logger.Error("VerifyReplay: first build failed: %v", err)
		return nil, fmt.Errorf("%w: VerifyReplay - first build: %v", ErrInternal, err)
	}

	second, err := projection.Build(upToSeq(s.ledger.RecordsFor(ctx, domain.RecordsFilter{}), first.LastSeq()))
	if err != nil {
		s.logger.Error("VerifyReplay: second build failed: %v", err)
		return nil, fmt.Errorf("%w: VerifyReplay - second build: %v", ErrInternal, err)
	}

	// Повторное применение того же журнала к готовой проекции ничего не меняет
	if err := second.Replay(upToSeq(s.ledger.RecordsFor(ctx, domain.RecordsFilter{}), first.LastSeq())); err != nil {
		return nil, fmt.Errorf("%w: VerifyReplay - replay: %v", ErrInternal, err)
	}

	diverged := projection.Diff(first, second)
	report := &models.ReplayReport{
		Records:        first.Applied(),
		Bookings:       first.Len(),
		LastSeq:        first.LastSeq(),
		Deterministic:  len(diverged) == 0 && first.Applied() == second.Applied(),
		Diverged:       diverged,
		SlotMismatches: []models.SlotMismatch{},
	}

	active := first.ActiveBySlot()
	slotIDs := make(map[int64]struct{})
	for _, a := range first.Appointments(nil) {
		slotIDs[a.SlotID] = struct{}{}
	}

	ids := make([]int64, 0, len(slotIDs))
	for id := range slotIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		slot, err := s.slots.GetByID(ctx, id)
		if err != nil {
			s.logger.Error("VerifyReplay: failed to load slot=%d: %v", id, err)
			return nil, fmt.Errorf("%w: VerifyReplay - load slot %d: %v", ErrInternal, id, err)
		}
		if slot.BookedCount != active[id] {
			report.SlotMismatches = append(report.SlotMismatches, models.SlotMismatch{
				SlotID:      id,
				Projected:   active[id],
				BookedCount: slot.BookedCount,
			})
		}
	}

	return report, nil
}

func recordsOf(records []*domain.BookingRecord) iter.Seq2[*domain.BookingRecord, error] {
	return func(yield func(*domain.BookingRecord, error) bool) {
		for _, rec := range records {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// upToSeq отбрасывает записи с seq больше lastSeq
func upToSeq(records iter.Seq2[*domain.BookingRecord, error], lastSeq int64) iter.Seq2[*domain.BookingRecord, error] {
	return func(yield func(*domain.BookingRecord, error) bool) {
		for rec, err := range records {
			if err == nil && rec.Seq > lastSeq {
				continue
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}
