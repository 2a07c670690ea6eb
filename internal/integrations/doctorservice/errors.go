package doctorservice

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врача нет в справочнике
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("doctorservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("doctorservice client: invalid response")

	// ErrUnavailable справочник врачей недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("doctorservice unavailable")
)
