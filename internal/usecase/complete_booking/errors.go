package complete_booking

import "errors"

var (
	// ErrNotFound подтверждённая запись с таким bookingId не найдена
	ErrNotFound = errors.New("complete_booking: booking not found")

	// ErrForbidden завершить приём может только его врач или администратор
	ErrForbidden = errors.New("complete_booking: forbidden")

	// ErrCannotComplete запись не подтверждена или приём ещё не начался
	ErrCannotComplete = errors.New("complete_booking: booking cannot be completed")

	// ErrPersistence хранилище недоступно или истёк таймаут
	ErrPersistence = errors.New("complete_booking: persistence error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_booking: invalid input data")
)
