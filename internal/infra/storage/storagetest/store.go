// Package storagetest хранилище в памяти с теми же контрактами и ошибками,
// что и репозитории PostgreSQL. Используется в тестах use case и сервисов
package storagetest

import (
	"context"
	"errors"
	"iter"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/ledger"
	"github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/slot"
)

// Store общее состояние слотов, журнала и конфигураций
type Store struct {
	mu      sync.Mutex
	slots   map[int64]domain.Slot
	nextID  int64
	records []domain.BookingRecord
	seq     int64
	configs map[int64]domain.ScheduleConfig // 0 - глобальная

	// txMu держится на всё время транзакции: транзакции выполняются строго по очереди
	txMu sync.Mutex

	// AppendHook вызывается перед добавлением записи; ошибка прерывает Append
	AppendHook func(ctx context.Context, rec *domain.BookingRecord) error
}

// New пустое хранилище
func New() *Store {
	return &Store{
		slots:   make(map[int64]domain.Slot),
		configs: make(map[int64]domain.ScheduleConfig),
	}
}

// Slots репозиторий слотов поверх хранилища
func (s *Store) Slots() *SlotRepository { return &SlotRepository{s: s} }

// Ledger журнал поверх хранилища
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s: s} }

// Configs репозиторий конфигураций поверх хранилища
func (s *Store) Configs() *ConfigRepository { return &ConfigRepository{s: s} }

// TxManager менеджер транзакций с откатом к снимку
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// AddSlot кладет слот как есть и возвращает присвоенный ID
func (s *Store) AddSlot(sl domain.Slot) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sl.ID = s.nextID
	if sl.Source == "" {
		sl.Source = domain.SlotSourceDeclared
	}
	s.slots[sl.ID] = sl
	return sl.ID
}

// Slot текущее состояние слота
func (s *Store) Slot(id int64) (domain.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[id]
	return sl, ok
}

// Records копия всего журнала в порядке добавления
func (s *Store) Records() []domain.BookingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.BookingRecord, len(s.records))
	copy(out, s.records)
	return out
}

type snapshot struct {
	slots   map[int64]domain.Slot
	nextID  int64
	records int
	seq     int64
	configs map[int64]domain.ScheduleConfig
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		slots:   make(map[int64]domain.Slot, len(s.slots)),
		nextID:  s.nextID,
		records: len(s.records),
		seq:     s.seq,
		configs: make(map[int64]domain.ScheduleConfig, len(s.configs)),
	}
	for id, sl := range s.slots {
		snap.slots[id] = sl
	}
	for id, c := range s.configs {
		snap.configs[id] = c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = snap.slots
	s.nextID = snap.nextID
	s.records = s.records[:snap.records]
	s.seq = snap.seq
	s.configs = snap.configs
}

type txKey struct{}

// TxManager выполняет fn под глобальной блокировкой; при ошибке состояние откатывается
type TxManager struct {
	s *Store
}

// Do выполняет fn в "транзакции"
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()

	committed := false
	defer func() {
		if !committed {
			m.s.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		return err
	}

	committed = true
	return nil
}

// DoReadOnly выполняет fn без отката. Пишущие транзакции ждут её завершения,
// поэтому fn видит один согласованный снимок
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// SlotRepository слоты в памяти
type SlotRepository struct {
	s *Store
}

func (r *SlotRepository) Create(_ context.Context, sl *domain.Slot) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.slots {
		if existing.DoctorID == sl.DoctorID && existing.StartsAt.Equal(sl.StartsAt) && existing.EndsAt.Equal(sl.EndsAt) {
			return nil, slot.ErrSlotAlreadyExists
		}
	}

	r.s.nextID++
	sl.ID = r.s.nextID
	sl.BookedCount = 0
	sl.Active = true
	r.s.slots[sl.ID] = *sl
	return sl, nil
}

func (r *SlotRepository) Materialize(_ context.Context, slots []*domain.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, sl := range slots {
		exists := false
		for _, existing := range r.s.slots {
			if existing.DoctorID == sl.DoctorID && existing.StartsAt.Equal(sl.StartsAt) && existing.EndsAt.Equal(sl.EndsAt) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.s.nextID++
		created := *sl
		created.ID = r.s.nextID
		created.BookedCount = 0
		created.Active = true
		created.Source = domain.SlotSourceGenerated
		r.s.slots[created.ID] = created
	}
	return nil
}

func (r *SlotRepository) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slots[id]
	if !ok {
		return nil, slot.ErrSlotNotFound
	}
	return &sl, nil
}

func (r *SlotRepository) ListByDoctor(_ context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.Slot, 0)
	for _, sl := range r.s.slots {
		if sl.DoctorID != filter.DoctorID || sl.StartsAt.Before(filter.From) || !sl.StartsAt.Before(filter.To) {
			continue
		}
		if !filter.IncludeInactive && !sl.Active {
			continue
		}
		sl := sl
		out = append(out, &sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *SlotRepository) Reserve(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slots[id]
	if !ok {
		return slot.ErrSlotFull
	}
	if err := sl.TryReserve(); err != nil {
		return slot.ErrSlotFull
	}
	r.s.slots[id] = sl
	return nil
}

func (r *SlotRepository) Release(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slots[id]
	if !ok {
		return slot.ErrSlotNotFound
	}
	sl.Release()
	r.s.slots[id] = sl
	return nil
}

func (r *SlotRepository) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slots[id]
	if !ok {
		return slot.ErrSlotNotFound
	}
	sl.Active = active
	r.s.slots[id] = sl
	return nil
}

// LedgerRepository журнал в памяти
type LedgerRepository struct {
	s *Store
}

func (r *LedgerRepository) Append(ctx context.Context, rec *domain.BookingRecord) (*domain.BookingRecord, error) {
	if !rec.Outcome.IsValid() || rec.RecordID == uuid.Nil || rec.BookingID == uuid.Nil {
		return nil, ledger.ErrInvalidRecord
	}

	if r.s.AppendHook != nil {
		if err := r.s.AppendHook(ctx, rec); err != nil {
			return nil, err
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.records {
		if existing.RecordID == rec.RecordID {
			return nil, ledger.ErrDuplicateRecord
		}
		if existing.BookingID != rec.BookingID {
			continue
		}
		if existing.Outcome.IsOpening() && rec.Outcome.IsOpening() {
			return nil, ledger.ErrDuplicateRecord
		}
		if !existing.Outcome.IsOpening() && !rec.Outcome.IsOpening() {
			return nil, ledger.ErrDuplicateRecord
		}
	}

	r.s.seq++
	rec.Seq = r.s.seq
	r.s.records = append(r.s.records, *rec)
	return rec, nil
}

func (r *LedgerRepository) RecordsFor(_ context.Context, filter domain.RecordsFilter) iter.Seq2[*domain.BookingRecord, error] {
	return func(yield func(*domain.BookingRecord, error) bool) {
		r.s.mu.Lock()
		matched := make([]domain.BookingRecord, 0)
		for _, rec := range r.s.records {
			if matches(rec, filter) {
				matched = append(matched, rec)
			}
		}
		r.s.mu.Unlock()

		sort.SliceStable(matched, func(i, j int) bool {
			if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
				return matched[i].RequestedAt.Before(matched[j].RequestedAt)
			}
			return matched[i].Seq < matched[j].Seq
		})

		for i := range matched {
			if !yield(&matched[i], nil) {
				return
			}
		}
	}
}

func (r *LedgerRepository) History(ctx context.Context, bookingID uuid.UUID) ([]*domain.BookingRecord, error) {
	records := make([]*domain.BookingRecord, 0, 2)
	for rec, err := range r.RecordsFor(ctx, domain.RecordsFilter{BookingID: &bookingID}) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ledger.ErrRecordNotFound
	}
	return records, nil
}

func (r *LedgerRepository) FindActiveBooking(_ context.Context, slotID, patientID int64) (*domain.BookingRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	closed := make(map[uuid.UUID]bool)
	for _, rec := range r.s.records {
		if rec.Outcome == domain.OutcomeCancelled || rec.Outcome == domain.OutcomeCompleted {
			closed[rec.BookingID] = true
		}
	}

	for i := len(r.s.records) - 1; i >= 0; i-- {
		rec := r.s.records[i]
		if rec.SlotID == slotID && rec.PatientID == patientID &&
			rec.Outcome == domain.OutcomeConfirmed && !closed[rec.BookingID] {
			return &rec, nil
		}
	}
	return nil, ledger.ErrRecordNotFound
}

func matches(rec domain.BookingRecord, f domain.RecordsFilter) bool {
	if f.DoctorID != nil && rec.DoctorID != *f.DoctorID {
		return false
	}
	if f.PatientID != nil && rec.PatientID != *f.PatientID {
		return false
	}
	if f.SlotID != nil && rec.SlotID != *f.SlotID {
		return false
	}
	if f.BookingID != nil && rec.BookingID != *f.BookingID {
		return false
	}
	return rec.Seq > f.AfterSeq
}

// ConfigRepository конфигурации расписания в памяти
type ConfigRepository struct {
	s *Store
}

func (r *ConfigRepository) GetByDoctor(_ context.Context, doctorID *int64) (*domain.ScheduleConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var key int64
	if doctorID != nil {
		key = *doctorID
	}
	cfg, ok := r.s.configs[key]
	if !ok {
		return nil, schedule.ErrConfigNotFound
	}
	return &cfg, nil
}

func (r *ConfigRepository) GetConfigWithHierarchy(ctx context.Context, doctorID int64) (*domain.ScheduleConfig, error) {
	cfg, err := r.GetByDoctor(ctx, &doctorID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, schedule.ErrConfigNotFound) {
		return nil, err
	}
	return r.GetByDoctor(ctx, nil)
}

func (r *ConfigRepository) Upsert(_ context.Context, cfg *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var key int64
	if cfg.DoctorID != nil {
		key = *cfg.DoctorID
	}
	if existing, ok := r.s.configs[key]; ok {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	} else {
		cfg.ID = int64(len(r.s.configs) + 1)
	}
	r.s.configs[key] = *cfg
	return cfg, nil
}
