package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/MediLog-SchedulingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var recordColumns = []string{
	"seq",
	"record_id",
	"booking_id",
	"slot_id",
	"doctor_id",
	"patient_id",
	"outcome",
	"reason_code",
	"actor_id",
	"actor_role",
	"idempotency_key",
	"requested_at",
	"slot_starts_at",
	"slot_ends_at",
	"patient_name",
	"patient_email",
	"doctor_name",
	"hospital_name",
	"disease",
	"clinical_note",
}

// Repository журнал бронирований. Поддерживает только добавление и чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись и возвращает её с присвоенным seq.
// Если в контексте есть транзакция, запись станет видна только после её фиксации
func (r *Repository) Append(ctx context.Context, rec *domain.BookingRecord) (*domain.BookingRecord, error) {
	if !rec.Outcome.IsValid() || rec.RecordID == uuid.Nil || rec.BookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: outcome=%q record=%s booking=%s",
			ErrInvalidRecord, rec.Outcome, rec.RecordID, rec.BookingID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	d := rec.Details
	query, args, err := psqlbuilder.Insert("booking_records").
		Columns(recordColumns[1:]...).
		Values(
			rec.RecordID,
			rec.BookingID,
			rec.SlotID,
			rec.DoctorID,
			rec.PatientID,
			rec.Outcome,
			rec.ReasonCode,
			rec.ActorID,
			rec.ActorRole,
			rec.IdempotencyKey,
			rec.RequestedAt,
			d.SlotStartsAt,
			d.SlotEndsAt,
			d.PatientName,
			d.PatientEmail,
			d.DoctorName,
			d.HospitalName,
			d.Disease,
			d.ClinicalNote,
		).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rec.Seq)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: booking=%s outcome=%s", ErrDuplicateRecord, rec.BookingID, rec.Outcome)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return rec, nil
}

// RecordsFor ленивая конечная последовательность записей по фильтру в порядке requested_at.
// Каждый проход заново выполняет запрос, поэтому последовательность можно перебирать повторно.
// Ошибка отдается вторым значением и завершает перебор
func (r *Repository) RecordsFor(ctx context.Context, filter domain.RecordsFilter) iter.Seq2[*domain.BookingRecord, error] {
	return func(yield func(*domain.BookingRecord, error) bool) {
		query, args, err := buildRecordsQuery(filter).ToSql()
		if err != nil {
			yield(nil, fmt.Errorf("%w: RecordsFor - build select query: %v", ErrBuildQuery, err))
			return
		}

		executor := dbmetrics.GetExecutor(ctx, r.db)
		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("%w: RecordsFor - execute query: %v", ErrExecQuery, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				yield(nil, fmt.Errorf("%w: RecordsFor - scan row: %v", ErrScanRow, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("%w: RecordsFor - rows error: %v", ErrScanRow, err))
		}
	}
}

// History все записи одного бронирования в порядке журнала
func (r *Repository) History(ctx context.Context, bookingID uuid.UUID) ([]*domain.BookingRecord, error) {
	records := make([]*domain.BookingRecord, 0, 2)
	for rec, err := range r.RecordsFor(ctx, domain.RecordsFilter{BookingID: &bookingID}) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}

	return records, nil
}

// FindActiveBooking подтверждённая запись пациента на слот, у которой ещё нет завершающей записи.
// Используется для идемпотентного повтора запроса (doctorId+patientId+slotId)
func (r *Repository) FindActiveBooking(ctx context.Context, slotID, patientID int64) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(prefixed("c", recordColumns)...).
		From("booking_records c").
		Where(squirrel.Eq{
			"c.slot_id":    slotID,
			"c.patient_id": patientID,
			"c.outcome":    domain.OutcomeConfirmed,
		}).
		Where(`NOT EXISTS (
			SELECT 1 FROM booking_records t
			WHERE t.booking_id = c.booking_id AND t.outcome IN ('CANCELLED', 'COMPLETED')
		)`).
		OrderBy("c.seq DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveBooking - build select query: %v", ErrBuildQuery, err)
	}

	rec, err := scanRecord(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveBooking - scan record: %v", ErrScanRow, err)
	}

	return rec, nil
}

func buildRecordsQuery(filter domain.RecordsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(recordColumns...).
		From("booking_records").
		OrderBy("requested_at ASC", "seq ASC")

	if filter.DoctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.BookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_id": *filter.BookingID})
	}
	if filter.AfterSeq > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"seq": filter.AfterSeq})
	}

	return selectBuilder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.BookingRecord, error) {
	var (
		rec     domain.BookingRecord
		startAt sql.NullTime
		endAt   sql.NullTime
	)

	err := row.Scan(
		&rec.Seq,
		&rec.RecordID,
		&rec.BookingID,
		&rec.SlotID,
		&rec.DoctorID,
		&rec.PatientID,
		&rec.Outcome,
		&rec.ReasonCode,
		&rec.ActorID,
		&rec.ActorRole,
		&rec.IdempotencyKey,
		&rec.RequestedAt,
		&startAt,
		&endAt,
		&rec.Details.PatientName,
		&rec.Details.PatientEmail,
		&rec.Details.DoctorName,
		&rec.Details.HospitalName,
		&rec.Details.Disease,
		&rec.Details.ClinicalNote,
	)
	if err != nil {
		return nil, err
	}

	if startAt.Valid {
		rec.Details.SlotStartsAt = &startAt.Time
	}
	if endAt.Valid {
		rec.Details.SlotEndsAt = &endAt.Time
	}

	return &rec, nil
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
