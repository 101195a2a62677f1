// Package backup writes export snapshots to disk, on demand or on a cron
// schedule.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"jibajeti/internal/log"
)

// FilePrefix starts every backup file name.
const FilePrefix = "jibajeti-backup-"

const (
	timestampLayout = "20060102T150405Z"
	jobTimeout      = time.Minute
)

// Exporter produces the snapshot written to each backup.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

type Scheduler struct {
	cronEngine *cron.Cron
	exporter   Exporter
	dir        string
	spec       string
	now        func() time.Time
	logger     *log.Logger
}

func NewScheduler(exporter Exporter, dir, spec string, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(time.UTC)),
		exporter:   exporter,
		dir:        dir,
		spec:       spec,
		now:        time.Now,
		logger:     log.OrDiscard(logger).WithComponent(log.ComponentBackup),
	}
}

// FileName returns the backup file name for a snapshot taken at t.
func FileName(t time.Time) string {
	return FilePrefix + t.UTC().Format(timestampLayout) + ".json"
}

// RunOnce writes one snapshot and returns its path.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	data, err := s.exporter.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(s.dir, FileName(s.now()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.logger.InfoContext(ctx, "Backup written", log.FieldPath, path, log.FieldBytes, len(data))
	return path, nil
}

// Start registers the backup job and starts the cron engine.
func (s *Scheduler) Start() error {
	s.logger.Info("Starting backup scheduler", "schedule", s.spec, log.FieldPath, s.dir)

	_, err := s.cronEngine.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Scheduled backup failed", log.FieldError, err)
		}
	})
	if err != nil {
		return fmt.Errorf("add backup job %q: %w", s.spec, err)
	}

	s.cronEngine.Start()
	return nil
}

// Stop stops the scheduler and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping backup scheduler")
	<-s.cronEngine.Stop().Done()
	s.logger.Info("Backup scheduler stopped")
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
