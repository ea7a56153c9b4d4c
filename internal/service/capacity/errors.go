package capacity

import "errors"

var (
	// ErrInternal возвращается при ошибке изменения емкости
	ErrInternal = errors.New("capacity: internal error")
)
