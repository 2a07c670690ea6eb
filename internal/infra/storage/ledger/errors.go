package ledger

import "errors"

var (
	// ErrRecordNotFound возвращается, когда подходящих записей журнала нет
	ErrRecordNotFound = errors.New("ledger.repository: record not found")

	// ErrDuplicateRecord возвращается при повторной записи открывающего или завершающего исхода
	ErrDuplicateRecord = errors.New("ledger.repository: duplicate record for booking")

	// ErrInvalidRecord возвращается при попытке записать некорректную запись
	ErrInvalidRecord = errors.New("ledger.repository: invalid record")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
