package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/MediLog-SchedulingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

var configColumns = []string{
	"id",
	"doctor_id",
	"slot_duration_minutes",
	"slot_capacity",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигурации расписания врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDoctor конфигурация конкретного врача; nil doctorID - глобальная конфигурация
func (r *Repository) GetByDoctor(ctx context.Context, doctorID *int64) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildConfigQuery(doctorID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctor - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.ScheduleConfig
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.DoctorID,
		&cfg.SlotDurationMinutes,
		&cfg.SlotCapacity,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctor - scan config: %v", ErrScanRow, err)
	}

	return &cfg, nil
}

// GetConfigWithHierarchy конфигурация с учетом приоритетов:
// 1. Конфигурация врача
// 2. Глобальная конфигурация
//
// Если не найдено ни одной, возвращает ErrConfigNotFound
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, doctorID int64) (*domain.ScheduleConfig, error) {
	cfg, err := r.GetByDoctor(ctx, &doctorID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - doctor level: %v", ErrExecQuery, err)
	}

	cfg, err = r.GetByDoctor(ctx, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - global level: %v", ErrExecQuery, err)
	}

	return nil, ErrConfigNotFound
}

// Upsert создает или обновляет конфигурацию врача (или глобальную при DoctorID == nil)
func (r *Repository) Upsert(ctx context.Context, cfg *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("doctor_schedule_config").
		Columns(
			"doctor_id",
			"slot_duration_minutes",
			"slot_capacity",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			cfg.DoctorID,
			cfg.SlotDurationMinutes,
			cfg.SlotCapacity,
			cfg.AdvanceBookingDays,
			cfg.MinBookingNoticeMinutes,
		).
		Suffix("ON CONFLICT "+conflictTarget(cfg.DoctorID)+` DO UPDATE SET
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			slot_capacity = EXCLUDED.slot_capacity,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return cfg, nil
}

func buildConfigQuery(doctorID *int64) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(configColumns...).From("doctor_schedule_config")
	if doctorID == nil {
		return selectBuilder.Where(squirrel.Eq{"doctor_id": nil})
	}
	return selectBuilder.Where(squirrel.Eq{"doctor_id": *doctorID})
}

// conflictTarget частичный уникальный индекс, по которому работает upsert
func conflictTarget(doctorID *int64) string {
	if doctorID == nil {
		return "((doctor_id IS NULL)) WHERE doctor_id IS NULL"
	}
	return "(doctor_id) WHERE doctor_id IS NOT NULL"
}
