package reconciler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker запускает реконсилер по cron-расписанию
// Следующий запуск пропускается, если предыдущий еще не закончился
type Worker struct {
	cron         *cron.Cron
	useCase      ReconcileUseCase
	schedule     string
	timeProvider TimeProvider
	logger       Logger

	mu      sync.Mutex
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New создает воркер; schedule в формате cron или дескриптор вида "@every 1h"
func New(useCase ReconcileUseCase, schedule string, logger Logger) (*Worker, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid reconciler schedule %q: %w", schedule, err)
	}

	cl := &cronLogger{logger: logger}
	w := &Worker{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		useCase:      useCase,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}

	if _, err := w.cron.AddFunc(schedule, w.tick); err != nil {
		return nil, fmt.Errorf("failed to schedule reconciler: %w", err)
	}
	return w, nil
}

// WithTimeProvider подменяет источник времени
func (w *Worker) WithTimeProvider(tp TimeProvider) *Worker {
	w.timeProvider = tp
	return w
}

// Start запускает расписание; ctx ограничивает время жизни всех проходов
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	w.baseCtx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.cron.Start()
	w.logger.Info("Reconciler: started with schedule %q", w.schedule)
}

// Stop останавливает расписание и ждет завершения текущего прохода
func (w *Worker) Stop() {
	done := w.cron.Stop().Done()

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	<-done
	w.logger.Info("Reconciler: stopped")
}

// RunOnce выполняет один проход на текущий момент
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	now := w.timeProvider.Now()
	started := time.Now()

	result, err := w.useCase.Execute(ctx, now)
	if err != nil {
		w.logger.Error("Reconciler: sweep failed: %v", err)
		if result == nil {
			return 0, err
		}
		return result.Reclaimed, err
	}

	w.logger.Info("Reconciler: sweep finished in %s, reclaimed=%d, failed=%d",
		time.Since(started).Round(time.Millisecond), result.Reclaimed, result.Failed)
	return result.Reclaimed, nil
}

func (w *Worker) tick() {
	w.mu.Lock()
	ctx := w.baseCtx
	w.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	_, _ = w.RunOnce(ctx)
}

// cronLogger адаптирует printf-логгер к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("Reconciler: cron %s%s", msg, formatKeysAndValues(keysAndValues))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Reconciler: cron %s: %v%s", msg, err, formatKeysAndValues(keysAndValues))
}

func formatKeysAndValues(keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
