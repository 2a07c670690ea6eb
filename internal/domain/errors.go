package domain

import "errors"

var (
	// ErrSlotFull в слоте нет свободных мест
	ErrSlotFull = errors.New("domain: slot is full")

	// ErrSlotInactive слот снят с расписания
	ErrSlotInactive = errors.New("domain: slot is inactive")

	// ErrSlotInPast слот уже начался
	ErrSlotInPast = errors.New("domain: slot is in the past")

	// ErrOutsideAvailability слот вне рабочих часов врача или в заблокированный день
	ErrOutsideAvailability = errors.New("domain: slot is outside doctor availability")

	// ErrInvalidTransition недопустимый переход статуса записи
	ErrInvalidTransition = errors.New("domain: invalid appointment status transition")

	// ErrBrokenChain цепочка записей журнала не соответствует автомату статусов
	ErrBrokenChain = errors.New("domain: booking record chain is inconsistent")
)
