package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
)

//go:embed *.sql
var files embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Apply выполняет все SQL-файлы по порядку имен. Скрипты идемпотентны (IF NOT EXISTS)
func Apply(ctx context.Context, db dbmetrics.DBExecutor, logger Logger) (int, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("migrations: list files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return 0, fmt.Errorf("migrations: read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return 0, fmt.Errorf("migrations: apply %s: %w", name, err)
		}
		logger.Info("Migration applied: %s", name)
	}
	return len(names), nil
}
