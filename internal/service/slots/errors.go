package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotFull возвращается, когда в слоте нет мест
	ErrSlotFull = errors.New("slot is full")

	// ErrSlotAlreadyExists возвращается, когда у врача уже есть слот с таким интервалом
	ErrSlotAlreadyExists = errors.New("slot already exists")

	// ErrInvalidSlot возвращается, когда слот нельзя объявить или на него нельзя записаться
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrDoctorNotFound возвращается, когда врача нет в справочнике
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrDirectoryUnavailable справочник врачей недоступен
	ErrDirectoryUnavailable = errors.New("doctor directory unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
