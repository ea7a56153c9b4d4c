package capacity

import "errors"

var (
	// ErrRoomNotFound возвращается, когда кабинет не найден
	ErrRoomNotFound = errors.New("capacity.repository: room not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("capacity.repository: resource not found")

	// ErrQuantityOutOfRange изменение количества вывело бы его за пределы [0, total_quantity]
	ErrQuantityOutOfRange = errors.New("capacity.repository: resource quantity out of range")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacity.repository: failed to scan row")
)
