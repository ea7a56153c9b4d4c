package conflicts

import "errors"

var (
	// ErrInternal возвращается при ошибке чтения броней
	ErrInternal = errors.New("conflicts: internal error")
)
