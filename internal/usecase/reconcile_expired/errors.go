package reconcile_expired

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reconcile_expired: internal error")
)
