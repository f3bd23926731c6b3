package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/domain/settings"
	"pingo-api/internal/domain/upload"
	"pingo-api/internal/infrastructure/metrics"
	"pingo-api/internal/infrastructure/mq"
	"pingo-api/internal/infrastructure/storage"
	"pingo-api/pkg/filename"
)

// Report summarises one sweep.
type Report struct {
	Action          settings.ExpirationAction
	Matched         int
	Deleted         int
	MadeUnavailable int
	FileErrors      int
	RecordErrors    int
	Skipped         bool
}

// ExpirationSweeper applies the configured expiration policy to uploads
// past their expiry.
type ExpirationSweeper struct {
	uploads  upload.Repository
	settings settings.Repository
	files    ports.UploadFiles
	events   ports.EventEmitter
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
	interval time.Duration
	now      func() time.Time
}

func NewExpirationSweeper(
	uploads upload.Repository,
	settingsRepo settings.Repository,
	files ports.UploadFiles,
	events ports.EventEmitter,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
	interval time.Duration,
) *ExpirationSweeper {
	return &ExpirationSweeper{
		uploads:  uploads,
		settings: settingsRepo,
		files:    files,
		events:   events,
		logger:   logger,
		mCounter: mCounter,
		interval: interval,
		now:      time.Now,
	}
}

// Worker sweeps once right away and then on every tick until ctx is done.
func (s *ExpirationSweeper) Worker(ctx context.Context) {
	s.logger.Info("starting expiration sweeper", zap.Duration("interval", s.interval))

	defer func() {
		s.logger.Info("expiration sweeper gracefully stopped")
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx, s.now())
	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx, s.now())
		case <-ctx.Done():
			return
		}
	}
}

func (s *ExpirationSweeper) Sweep(ctx context.Context, now time.Time) Report {
	rep := Report{Action: settings.ActionUnavailable}
	s.mCounter.WithLabelValues(metrics.SweepsTotal).Inc()

	st, err := s.settings.Fetch(ctx)
	if err != nil {
		s.logger.Error("sweep skipped: cannot load settings", zap.Error(err))
		rep.Skipped = true
		return rep
	}
	if st != nil {
		rep.Action = settings.ParseExpirationAction(string(st.ExpirationAction))
	}

	expired, err := s.uploads.QueryExpired(ctx, now)
	if err != nil {
		s.logger.Error("sweep skipped: cannot query expired uploads", zap.Error(err))
		rep.Skipped = true
		return rep
	}
	rep.Matched = len(expired)

	for _, e := range expired {
		if ctx.Err() != nil {
			break
		}
		switch rep.Action {
		case settings.ActionDelete:
			s.deleteUpload(ctx, e, now, &rep)
		default:
			s.disableUpload(ctx, e, now, &rep)
		}
	}

	s.logger.Info("expiration sweep finished",
		zap.String("action", string(rep.Action)),
		zap.Int("matched", rep.Matched),
		zap.Int("deleted", rep.Deleted),
		zap.Int("made_unavailable", rep.MadeUnavailable),
		zap.Int("file_errors", rep.FileErrors),
		zap.Int("record_errors", rep.RecordErrors),
	)

	return rep
}

func (s *ExpirationSweeper) deleteUpload(ctx context.Context, e upload.Expired, now time.Time, rep *Report) {
	for _, name := range e.Files {
		physical := filename.Encode(e.ID, name)
		if err := s.files.Remove(physical); err != nil {
			rep.FileErrors++
			s.mCounter.WithLabelValues(metrics.SweepFileErrorsTotal).Inc()
			if errors.Is(err, storage.ErrFileNotFound) {
				s.logger.Warn("expired file already missing", zap.String("upload_id", e.ID), zap.String("file", physical))
				continue
			}
			s.logger.Error("failed to remove expired file", zap.String("upload_id", e.ID), zap.String("file", physical), zap.Error(err))
		}
	}

	changed, err := s.uploads.MarkDeleted(ctx, e.ID, upload.ReasonExpired, now)
	if err != nil {
		rep.RecordErrors++
		s.logger.Error("failed to mark upload deleted", zap.String("upload_id", e.ID), zap.Error(err))
		return
	}
	if !changed {
		return
	}

	rep.Deleted++
	s.mCounter.WithLabelValues(metrics.SweepDeletedTotal).Inc()
	s.emit(ctx, mq.NewEvent(mq.ActionUploadDeleted, e.ID, upload.ReasonExpired, now))
}

func (s *ExpirationSweeper) disableUpload(ctx context.Context, e upload.Expired, now time.Time, rep *Report) {
	changed, err := s.uploads.MarkUnavailable(ctx, e.ID)
	if err != nil {
		rep.RecordErrors++
		s.logger.Error("failed to mark upload unavailable", zap.String("upload_id", e.ID), zap.Error(err))
		return
	}
	if !changed {
		return
	}

	rep.MadeUnavailable++
	s.mCounter.WithLabelValues(metrics.SweepUnavailableTotal).Inc()
	s.emit(ctx, mq.NewEvent(mq.ActionUploadUnavailable, e.ID, "", now))
}

func (s *ExpirationSweeper) emit(ctx context.Context, e mq.Event) {
	if err := s.events.Emit(ctx, e); err != nil {
		s.mCounter.WithLabelValues(metrics.EventsDroppedTotal).Inc()
		s.logger.Warn("lifecycle event dropped", zap.String("upload_id", e.UploadID), zap.String("action", e.Action), zap.Error(err))
	}
}
