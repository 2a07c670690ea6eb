package cancel_booking

import "errors"

var (
	// ErrNotFound подтверждённая запись с таким bookingId не найдена
	ErrNotFound = errors.New("cancel_booking: booking not found")

	// ErrForbidden актор не пациент, не врач этой записи и не администратор
	ErrForbidden = errors.New("cancel_booking: forbidden")

	// ErrCannotCancel запись уже отменена или завершена
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrPersistence хранилище недоступно или истёк таймаут; запрос можно повторить
	ErrPersistence = errors.New("cancel_booking: persistence error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")
)
