// Package audit records access entries asynchronously. Recording never
// blocks and never fails the caller: entries are buffered on a channel,
// flushed in batches by a background worker, and dropped with a log line
// when the buffer is full or the document store is unavailable.
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
)

// Recorder accepts access entries for asynchronous persistence.
type Recorder interface {
	Record(userID, eventID int64, accessType string, meta dto.AccessMeta)
	Close()
}

// Config tunes the recorder's buffering behavior.
type Config struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
}

// DefaultConfig returns the recorder defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:    1000,
		BatchSize:     50,
		FlushInterval: 2 * time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

type recorder struct {
	repo    repository.AccessLogRepository
	logger  *zap.Logger
	cfg     Config
	entries chan *domain.AccessEntry
	done    chan struct{}
	wg      sync.WaitGroup
	dropped int64
	mu      sync.Mutex
}

// NewRecorder starts a recorder backed by repo. A nil repo is allowed and
// turns every Record call into a counted drop, which keeps the rest of the
// service working when the document store is down.
func NewRecorder(repo repository.AccessLogRepository, logger *zap.Logger, cfg Config) Recorder {
	if cfg.BufferSize <= 0 {
		cfg = DefaultConfig()
	}
	r := &recorder{
		repo:    repo,
		logger:  logger,
		cfg:     cfg,
		entries: make(chan *domain.AccessEntry, cfg.BufferSize),
		done:    make(chan struct{}),
	}
	if repo != nil {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Record enqueues an access entry. It returns immediately; on a full buffer
// or missing store the entry is dropped.
func (r *recorder) Record(userID, eventID int64, accessType string, meta dto.AccessMeta) {
	if r.repo == nil {
		r.drop()
		return
	}
	entry := &domain.AccessEntry{
		UserID:     userID,
		EventID:    eventID,
		AccessType: accessType,
		Timestamp:  time.Now().UTC(),
		Details: domain.AccessDetails{
			IP:     meta.IP,
			Device: meta.Device,
			Status: "ok",
		},
	}
	select {
	case r.entries <- entry:
	default:
		r.drop()
	}
}

func (r *recorder) drop() {
	r.mu.Lock()
	r.dropped++
	n := r.dropped
	r.mu.Unlock()
	if n%100 == 1 {
		r.logger.Warn("access entries dropped", zap.Int64("total_dropped", n))
	}
}

func (r *recorder) worker() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*domain.AccessEntry, 0, r.cfg.BatchSize)
	for {
		select {
		case entry := <-r.entries:
			batch = append(batch, entry)
			if len(batch) >= r.cfg.BatchSize {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.done:
			// Drain what is already buffered before exiting.
			for {
				select {
				case entry := <-r.entries:
					batch = append(batch, entry)
				default:
					if len(batch) > 0 {
						r.flush(batch)
					}
					return
				}
			}
		}
	}
}

func (r *recorder) flush(batch []*domain.AccessEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	if err := r.repo.InsertMany(ctx, batch); err != nil {
		r.logger.Error("flush access entries",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
	}
}

// Close flushes buffered entries and stops the worker.
func (r *recorder) Close() {
	if r.repo == nil {
		return
	}
	close(r.done)
	r.wg.Wait()
}
