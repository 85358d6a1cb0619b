package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/repository"

	"github.com/tidwall/gjson"
	"gorm.io/datatypes"
)

type IngestResult struct {
	AsteroidsCreated int      `json:"asteroids_created"`
	FlybysCreated    int      `json:"flybys_created"`
	Processed        int      `json:"processed"`
	Skipped          int      `json:"skipped"`
	SkippedIDs       []string `json:"skipped_ids"`
}

type IngestService interface {
	// Reconcile writes a raw feed payload into storage. Records that fail are
	// logged and skipped; only context cancellation is returned as an error.
	Reconcile(ctx context.Context, payload []byte) (IngestResult, error)
	// FetchAndStore pulls the window from the feed, reconciles it and records
	// the attempt as an ingestion run.
	FetchAndStore(ctx context.Context, window clients.Window, trigger string) (*IngestResult, error)
	ListRuns(ctx context.Context, limit int) ([]models.IngestionRun, error)
	LatestRun(ctx context.Context) (*models.IngestionRun, error)
	PruneRuns(ctx context.Context, retention time.Duration) (int64, error)
}

type ingestService struct {
	asteroids repository.AsteroidRepository
	flybys    repository.FlybyRepository
	runs      repository.IngestionRunRepository
	client    clients.NEOClient
	loc       *time.Location
	log       logger.Logger
}

func NewIngestService(
	asteroids repository.AsteroidRepository,
	flybys repository.FlybyRepository,
	runs repository.IngestionRunRepository,
	client clients.NEOClient,
	loc *time.Location,
	log logger.Logger,
) IngestService {
	if loc == nil {
		loc = time.UTC
	}
	return &ingestService{
		asteroids: asteroids,
		flybys:    flybys,
		runs:      runs,
		client:    client,
		loc:       loc,
		log:       log,
	}
}

func (s *ingestService) Reconcile(ctx context.Context, payload []byte) (IngestResult, error) {
	result := IngestResult{SkippedIDs: []string{}}

	objects := gjson.GetBytes(payload, "near_earth_objects")
	if !objects.IsObject() {
		s.log.Warn("feed payload has no near_earth_objects")
		return result, nil
	}

	var abort error
	objects.ForEach(func(key, records gjson.Result) bool {
		dateKey := key.String()
		if !records.IsArray() {
			s.log.Warn("skipping non-list feed entry", logger.String("date", dateKey))
			return true
		}

		for _, rec := range records.Array() {
			if err := ctx.Err(); err != nil {
				abort = err
				return false
			}

			asteroidCreated, flybysCreated, err := s.reconcileRecord(ctx, rec, dateKey)
			// Rows committed before a failure stay stored and are counted.
			result.FlybysCreated += flybysCreated
			if asteroidCreated {
				result.AsteroidsCreated++
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					abort = ctxErr
					return false
				}
				id := recordID(rec)
				if id == "" {
					id = "unknown"
				}
				s.log.Warn("skipping feed record",
					logger.String("nasa_id", id),
					logger.String("date", dateKey),
					logger.Error(err),
				)
				result.Skipped++
				result.SkippedIDs = append(result.SkippedIDs, id)
				continue
			}

			result.Processed++
		}
		return true
	})

	if abort != nil {
		return result, fmt.Errorf("reconcile aborted: %w", abort)
	}
	return result, nil
}

func (s *ingestService) reconcileRecord(ctx context.Context, rec gjson.Result, dateKey string) (bool, int, error) {
	asteroid, err := parseAsteroid(rec)
	if err != nil {
		return false, 0, err
	}

	created, err := s.asteroids.Upsert(ctx, asteroid)
	if err != nil {
		return false, 0, fmt.Errorf("upsert asteroid: %w", err)
	}

	flybysCreated := 0
	for _, raw := range rec.Get("close_approach_data").Array() {
		a, err := parseApproach(raw, dateKey, s.loc)
		if err != nil {
			s.log.Warn("skipping close approach",
				logger.String("nasa_id", asteroid.NasaID),
				logger.String("date", raw.Get("close_approach_date").String()),
				logger.Error(err),
			)
			continue
		}

		inserted, err := s.flybys.CreateIfAbsent(ctx, &models.Flyby{
			AsteroidID:     asteroid.ID,
			Date:           a.Date,
			VelocityKmh:    a.VelocityKmh,
			MissDistanceKm: a.MissDistanceKm,
		})
		if err != nil {
			return created, flybysCreated, fmt.Errorf("store flyby: %w", err)
		}
		if inserted {
			flybysCreated++
		}
	}

	return created, flybysCreated, nil
}

func (s *ingestService) FetchAndStore(ctx context.Context, window clients.Window, trigger string) (*IngestResult, error) {
	log := s.log.With(logger.String("window", window.String()), logger.String("trigger", trigger))
	run := &models.IngestionRun{
		Trigger:   trigger,
		StartDate: window.Start,
		EndDate:   window.End,
		StartedAt: time.Now(),
	}

	log.Info("fetching NEO feed")
	payload, err := s.client.FetchFeed(ctx, window)
	if err != nil {
		log.Error("NEO feed unavailable, stored data left untouched", logger.Error(err))
		s.recordRun(ctx, run, nil, err)
		return nil, err
	}

	result, err := s.Reconcile(ctx, payload)
	s.recordRun(ctx, run, &result, err)
	if err != nil {
		return &result, err
	}

	log.Info("NEO feed ingested",
		logger.Int("asteroids_created", result.AsteroidsCreated),
		logger.Int("flybys_created", result.FlybysCreated),
		logger.Int("processed", result.Processed),
		logger.Int("skipped", result.Skipped),
	)
	return &result, nil
}

// recordRun persists the run even when ctx is already cancelled.
func (s *ingestService) recordRun(ctx context.Context, run *models.IngestionRun, result *IngestResult, runErr error) {
	run.FinishedAt = time.Now()
	run.Status = models.RunStatusSuccess
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.Error = runErr.Error()
	}

	if result != nil {
		run.AsteroidsCreated = result.AsteroidsCreated
		run.FlybysCreated = result.FlybysCreated
		run.Processed = result.Processed
		run.Skipped = result.Skipped
		if ids, err := json.Marshal(result.SkippedIDs); err == nil {
			run.SkippedIDs = datatypes.JSON(ids)
		}
	}

	if err := s.runs.Create(context.WithoutCancel(ctx), run); err != nil {
		s.log.Error("failed to record ingestion run", logger.Error(err))
	}
}

func (s *ingestService) ListRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	return s.runs.List(ctx, limit)
}

func (s *ingestService) LatestRun(ctx context.Context) (*models.IngestionRun, error) {
	run, err := s.runs.GetLatest(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return run, err
}

func (s *ingestService) PruneRuns(ctx context.Context, retention time.Duration) (int64, error) {
	return s.runs.DeleteOld(ctx, time.Now().Add(-retention))
}
