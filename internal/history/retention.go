package history

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RetentionConfig holds configuration for the retention cleaner.
type RetentionConfig struct {
	RetentionDays int
	// Interval between sweeps. Zero means hourly.
	Interval time.Duration
	Logger   logrus.FieldLogger
}

// RetentionCleaner periodically deletes target URLs older than the
// configured retention period.
type RetentionCleaner struct {
	store     *Store
	retention time.Duration
	interval  time.Duration
	log       logrus.FieldLogger
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewRetentionCleaner sweeps once immediately and then on every interval.
// It returns nil when retention is disabled (RetentionDays <= 0).
func NewRetentionCleaner(store *Store, cfg RetentionConfig) *RetentionCleaner {
	if cfg.RetentionDays <= 0 {
		return nil
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	rc := &RetentionCleaner{
		store:     store,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  cfg.Interval,
		log:       cfg.Logger.WithField("component", "history-retention"),
		done:      make(chan struct{}),
	}

	// Startup sweep to catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()
	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	rows, err := rc.store.Prune(rc.retention)
	if err != nil {
		rc.log.WithError(err).Warn("retention sweep failed")
		return
	}
	if rows > 0 {
		rc.log.WithField("rows", rows).Info("expired target urls deleted")
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}
