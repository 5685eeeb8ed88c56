// Package main implements the report dispatcher. It sends one task summary
// e-mail per subscribed user for the requested frequency and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/database"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/report"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

const frequencyAll = "all"

func main() {
	frequency := flag.String("frequency", frequencyAll, "report frequency to send: daily, weekly, monthly or all")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *frequency); err != nil {
		slog.Error("reporter exited with error", "error", err)
		os.Exit(1)
	}
}

// parseFrequencies expands the -frequency flag.
func parseFrequencies(value string) ([]domain.Frequency, error) {
	if value == frequencyAll {
		return domain.Frequencies, nil
	}
	f, err := domain.ParseFrequency(value)
	if err != nil {
		return nil, fmt.Errorf("invalid -frequency %q: must be daily, weekly, monthly or all", value)
	}
	return []domain.Frequency{f}, nil
}

func run(ctx context.Context, frequency string) error {
	frequencies, err := parseFrequencies(frequency)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	mailer, err := report.NewSMTPMailer(cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("failed to configure mailer: %w", err)
	}

	handle, err := database.Open(ctx, cfg.Database, false, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	dispatcher, err := newDispatcher(handle.Store, mailer, cfg.Mail.Workers, log)
	if err != nil {
		return err
	}

	result, err := dispatcher.Run(ctx, frequencies...)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		log.Warn("some reports were not delivered", "sent", result.Sent, "failed", result.Failed)
	}
	return nil
}

// newDispatcher wires the report pipeline over st.
func newDispatcher(st store.Store, mailer report.Mailer, workers int, log *slog.Logger) (*report.Dispatcher, error) {
	tasks, err := service.NewTaskService(st, events.NopEmitter{}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	builder := report.NewBuilder(st.Users(), tasks, st.Tombstones())
	return report.NewDispatcher(st.Subscriptions(), builder, mailer, workers, log), nil
}
