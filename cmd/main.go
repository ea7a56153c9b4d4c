package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicBooking/internal/config"
	"github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-ClinicBooking/internal/worker/reconciler"
	"github.com/m04kA/SMC-ClinicBooking/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "clinic-booking",
		Short:         "Арбитр бронирований клиники: врачи, кабинеты, оборудование",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "путь к TOML-конфигурации")

	root.AddCommand(
		newServeCmd(&configPath),
		newReconcileCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return root
}

// bootstrap загружает конфигурацию и создает логгер
func bootstrap(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API и фоновый реконсилер",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			log.Info("Starting SMC-ClinicBooking...")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			// Фоновое завершение истекших броней
			var worker *reconciler.Worker
			if cfg.Reconciler.Enabled {
				worker, err = reconciler.New(a.reconcileExpired, cfg.Reconciler.Schedule, log)
				if err != nil {
					return err
				}
				worker.Start(ctx)
			}

			addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      newRouter(a),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info("Starting server on %s", addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- err
				}
				close(serverErr)
			}()

			// Ожидаем сигнал завершения или падение сервера
			select {
			case <-ctx.Done():
			case err := <-serverErr:
				if err != nil {
					log.Error("Server failed: %v", err)
				}
			}

			log.Info("Shutting down server...")

			if worker != nil {
				worker.Stop()
			}

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
			)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Server forced to shutdown: %v", err)
			}

			log.Info("Server stopped gracefully")
			return nil
		},
	}
}

func newReconcileCmd(configPath *string) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Один проход завершения истекших броней",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			now := time.Now()
			if at != "" {
				now, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at value: %w", err)
				}
			}

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.reconcileExpired.Execute(cmd.Context(), now)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "reclaimed=%d failed=%d\n", result.Reclaimed, result.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "момент сверки в RFC 3339 (по умолчанию текущее время)")
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить SQL-схему к PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			if cfg.Storage.Driver != config.StorageDriverPostgres {
				log.Info("Storage driver %q has no schema, nothing to migrate", cfg.Storage.Driver)
				return nil
			}

			// Метрики для миграций не нужны
			cfg.Metrics.Enabled = false
			store, err := openPostgres(cfg, nil, log)
			if err != nil {
				return err
			}
			defer store.close()

			applied, err := migrations.Apply(cmd.Context(), store.db, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied=%d\n", applied)
			return nil
		},
	}
}
