package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/utils"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type ExportService interface {
	// ExportFlybys writes the stored flybys of window to a file in the
	// configured output directory and returns its path.
	ExportFlybys(ctx context.Context, window clients.Window, format string) (string, error)
}

type exportService struct {
	flybys    FlybyService
	outputDir string
	log       logger.Logger
}

func NewExportService(flybys FlybyService, outputDir string, log logger.Logger) ExportService {
	return &exportService{
		flybys:    flybys,
		outputDir: outputDir,
		log:       log,
	}
}

func (s *exportService) ExportFlybys(ctx context.Context, window clients.Window, format string) (string, error) {
	if format != "csv" && format != "xlsx" && format != "excel" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	from, to := window.Bounds()
	flybys, err := s.flybys.ListFlybysInWindow(ctx, from, to, false)
	if err != nil {
		return "", fmt.Errorf("failed to load flybys: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	base := fmt.Sprintf("flybys_%s_%s_%s",
		window.StartString(), window.EndString(), time.Now().UTC().Format("20060102_150405"))

	var path string
	switch format {
	case "csv":
		path = filepath.Join(s.outputDir, base+".csv")
		err = saveFlybysCSV(path, flybys)
	default:
		path = filepath.Join(s.outputDir, base+".xlsx")
		err = utils.CreateFlybyWorkbook(path, window.String(), flybys)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}

	s.log.Info("flyby export generated",
		logger.String("path", path),
		logger.Int("rows", len(flybys)),
	)
	return path, nil
}

func saveFlybysCSV(path string, flybys []models.Flyby) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"date", "nasa_id", "name", "is_potentially_hazardous", "velocity_kmh", "miss_distance_km"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, flyby := range flybys {
		var nasaID, name string
		hazardous := false
		if flyby.Asteroid != nil {
			nasaID = flyby.Asteroid.NasaID
			name = flyby.Asteroid.Name
			hazardous = flyby.Asteroid.IsPotentiallyHazardous
		}

		row := []string{
			flyby.Date.Format(time.RFC3339),
			nasaID,
			name,
			strconv.FormatBool(hazardous),
			fmt.Sprintf("%.2f", flyby.VelocityKmh),
			fmt.Sprintf("%.2f", flyby.MissDistanceKm),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
