package worker

import (
	"sync"
	"time"

	"neowatch/internal/logger"
)

type Worker interface {
	Start()
	Stop()
}

type Scheduler struct {
	workers []Worker
	wg      sync.WaitGroup
	stopped bool
	mu      sync.RWMutex
	log     logger.Logger
}

func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{
		workers: make([]Worker, 0),
		log:     log,
	}
}

func (s *Scheduler) AddWorker(worker Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, worker)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.log.Info("starting scheduler", logger.Int("workers", len(s.workers)))

	for _, worker := range s.workers {
		s.wg.Add(1)
		go func(w Worker) {
			defer s.wg.Done()
			w.Start()
		}(worker)
	}
}

// Stop stops every worker and waits up to timeout for in-flight starts.
func (s *Scheduler) Stop(timeout time.Duration) {
	s.mu.Lock()
	s.stopped = true
	workers := append([]Worker(nil), s.workers...)
	s.mu.Unlock()

	s.log.Info("stopping scheduler")

	for _, worker := range workers {
		worker.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("scheduler stopped gracefully")
	case <-time.After(timeout):
		s.log.Warn("scheduler stop timeout", logger.Duration("timeout", timeout))
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.stopped
}
