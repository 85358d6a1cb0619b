package worker

import (
	"context"
	"sync"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/service"
)

type IngestWorkerConfig struct {
	Interval     time.Duration
	Timeout      time.Duration
	WindowDays   int
	RunRetention time.Duration
	Location     *time.Location
}

// IngestWorker pulls the upcoming window from the feed on a ticker and prunes
// old ingestion runs.
type IngestWorker struct {
	service service.IngestService
	cfg     IngestWorkerConfig
	log     logger.Logger
	now     func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
}

func NewIngestWorker(service service.IngestService, cfg IngestWorkerConfig, log logger.Logger) *IngestWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = clients.DefaultWindowDays
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &IngestWorker{
		service:  service,
		cfg:      cfg,
		log:      log.With(logger.String("worker", "ingest")),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func (w *IngestWorker) Start() {
	w.mu.Lock()
	if w.running || w.stopped() {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("ingest worker started", logger.Duration("interval", w.cfg.Interval))

	w.sync()

	go w.run()
}

// Stop is safe to call before Start and more than once.
func (w *IngestWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.log.Info("ingest worker stopped")
	})

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *IngestWorker) stopped() bool {
	select {
	case <-w.stopChan:
		return true
	default:
		return false
	}
}

func (w *IngestWorker) run() {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sync()
		case <-w.stopChan:
			return
		}
	}
}

func (w *IngestWorker) sync() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
	defer cancel()

	go func() {
		select {
		case <-w.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	window := clients.NewWindow(time.Time{}, time.Time{}, w.now(), w.cfg.WindowDays, w.cfg.Location)
	if _, err := w.service.FetchAndStore(ctx, window, models.TriggerWorker); err != nil {
		w.log.Warn("ingest cycle failed", logger.String("window", window.String()), logger.Error(err))
	}

	if w.cfg.RunRetention > 0 {
		deleted, err := w.service.PruneRuns(ctx, w.cfg.RunRetention)
		if err != nil {
			w.log.Warn("failed to prune ingestion runs", logger.Error(err))
		} else if deleted > 0 {
			w.log.Info("pruned ingestion runs", logger.Int64("deleted", deleted))
		}
	}
}
