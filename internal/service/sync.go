package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyquest/gamification/internal/metrics"
	"github.com/studyquest/gamification/internal/model"
	"github.com/studyquest/gamification/pkg/logger"
)

type SyncRelayConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// SyncRelay drains the outbox into the document cache. Cache failures are
// recorded on the outbox row and retried on a later pass; they never reach
// the request that produced the document.
type SyncRelay struct {
	repo  SyncRepository
	cache DocumentCache
	cfg   SyncRelayConfig
	now   func() time.Time
}

func NewSyncRelay(repo SyncRepository, cache DocumentCache, cfg SyncRelayConfig) *SyncRelay {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}

	return &SyncRelay{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (r *SyncRelay) Run(ctx context.Context) error {
	log := logger.Logger()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				log.Error("cache sync pass failed", zap.Error(err))
			}
		}
	}
}

// Flush pushes one batch of pending documents and returns how many were
// synced. Rows come back oldest first; when a batch holds several rows for
// the same document only the newest is pushed, and the older ones are
// marked processed once it lands so a retry can never overwrite it.
func (r *SyncRelay) Flush(ctx context.Context) (int, error) {
	log := logger.Logger()

	events, err := r.repo.GetPendingSyncEvents(ctx, r.cfg.BatchSize, r.cfg.MaxAttempts)
	if err != nil {
		return 0, dependency("get pending sync events", err)
	}

	newest := make(map[string]*model.SyncEvent, len(events))
	for _, e := range events {
		newest[e.DocumentKey] = e
	}
	superseded := make(map[uuid.UUID][]*model.SyncEvent)
	for _, e := range events {
		if latest := newest[e.DocumentKey]; latest != e {
			superseded[latest.EventID] = append(superseded[latest.EventID], e)
		}
	}

	synced := 0
	for _, e := range events {
		if newest[e.DocumentKey] != e {
			continue
		}

		if err := r.cache.UpdateDocument(ctx, e.DocumentKey, e.Payload); err != nil {
			metrics.CacheSync.WithLabelValues(metrics.ResultFailed).Inc()
			log.Warn("cache sync failed",
				zap.String("event_id", e.EventID.String()),
				zap.String("document_key", e.DocumentKey),
				zap.Int("attempts", e.Attempts+1),
				zap.Error(err))

			if markErr := r.repo.MarkSyncEventFailed(ctx, e.EventID, err.Error()); markErr != nil {
				return synced, dependency("mark sync event failed", markErr)
			}
			continue
		}

		at := r.now().UTC()
		if err := r.repo.MarkSyncEventProcessed(ctx, e.EventID, at); err != nil {
			return synced, dependency("mark sync event processed", err)
		}
		metrics.CacheSync.WithLabelValues(metrics.ResultSynced).Inc()
		synced++

		for _, old := range superseded[e.EventID] {
			if err := r.repo.MarkSyncEventProcessed(ctx, old.EventID, at); err != nil {
				return synced, dependency("mark sync event superseded", err)
			}
			metrics.CacheSync.WithLabelValues(metrics.ResultSuperseded).Inc()
			log.Debug("cache sync superseded",
				zap.String("event_id", old.EventID.String()),
				zap.String("document_key", old.DocumentKey),
				zap.String("by", e.EventID.String()))
		}
	}

	return synced, nil
}
