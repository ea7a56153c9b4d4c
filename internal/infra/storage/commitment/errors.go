package commitment

import "errors"

var (
	// ErrCommitmentNotFound возвращается, когда бронь не найдена
	ErrCommitmentNotFound = errors.New("commitment.repository: commitment not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("commitment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("commitment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("commitment.repository: failed to scan row")
)
