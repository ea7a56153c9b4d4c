package reconciler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/usecase/reconcile_expired"
)

// ReconcileUseCase интерфейс прохода реконсилера
type ReconcileUseCase interface {
	Execute(ctx context.Context, now time.Time) (*reconcile_expired.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
