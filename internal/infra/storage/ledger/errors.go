package ledger

import "errors"

var (
	// ErrSoldOut возвращается, когда в слоте недостаточно свободных мест
	// Резервирование всё-или-ничего: частичный резерв не выполняется
	ErrSoldOut = errors.New("ledger.repository: not enough capacity in slot")

	// ErrSlotNotFound возвращается, когда запись ledger для слота не найдена
	ErrSlotNotFound = errors.New("ledger.repository: slot not found")

	// ErrReservationNotFound возвращается, когда токен резервирования не найден
	ErrReservationNotFound = errors.New("ledger.repository: reservation not found")

	// ErrNotInTransaction возвращается при попытке мутировать ledger вне транзакции
	// Все мутации ledger обязаны выполняться под сериализуемой транзакцией
	ErrNotInTransaction = errors.New("ledger.repository: mutation requires an active transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
