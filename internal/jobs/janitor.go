// Package jobs runs the background maintenance of the paper repository.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/metrics"
	"github.com/GunarsK-portfolio/paper-repository/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// FileReferences lists the file URLs recorded on paper rows.
type FileReferences interface {
	ListFileURLs(ctx context.Context) ([]string, error)
}

// Janitor removes uploaded files that no paper references.
type Janitor struct {
	papers  FileReferences
	files   storage.FileStore
	grace   time.Duration
	metrics *metrics.Metrics
	log     *logrus.Logger
	now     func() time.Time
	cron    *cron.Cron
}

// NewJanitor creates a Janitor. Files younger than grace are never removed, which
// keeps uploads whose insert transaction is still running.
func NewJanitor(papers FileReferences, files storage.FileStore, grace time.Duration, m *metrics.Metrics, log *logrus.Logger) *Janitor {
	return &Janitor{
		papers:  papers,
		files:   files,
		grace:   grace,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Sweep performs one reconciliation pass and returns the number of removed files.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	urls, err := j.papers.ListFileURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list referenced files: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if name, ok := j.files.NameFromURL(url); ok {
			referenced[name] = struct{}{}
		}
	}

	entries, err := j.files.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list stored files: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !strings.HasPrefix(entry.Name, storage.FilePrefix) || entry.ModTime.After(cutoff) {
			continue
		}
		if _, ok := referenced[entry.Name]; ok {
			continue
		}
		if err := j.files.Remove(entry.Name); err != nil {
			j.log.WithError(err).WithField("file", entry.Name).Error("failed to remove orphaned file")
			continue
		}
		j.log.WithField("file", entry.Name).Info("removed orphaned file")
		removed++
	}

	j.metrics.RecordOrphansRemoved(removed)
	return removed, nil
}

// Start schedules Sweep with a cron spec such as "@every 1h".
func (j *Janitor) Start(schedule string) error {
	cronLog := cron.VerbosePrintfLogger(j.log)
	j.cron = cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))

	_, err := j.cron.AddFunc(schedule, func() {
		removed, err := j.Sweep(context.Background())
		if err != nil {
			j.log.WithError(err).Error("orphan file sweep failed")
			return
		}
		j.log.WithField("removed", removed).Debug("orphan file sweep finished")
	})
	if err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}

	j.cron.Start()
	j.log.WithField("schedule", schedule).Info("orphan file janitor started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to expire.
func (j *Janitor) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.log.Warn("janitor stopped before the running sweep finished")
	}
}
