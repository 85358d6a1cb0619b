package service

import (
	"fmt"
	"strconv"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"

	"github.com/tidwall/gjson"
)

const (
	approachFullLayout = "2006-Jan-02 15:04"
	secondsPerHour     = 3600
)

type approach struct {
	Date           time.Time
	VelocityKmh    float64
	MissDistanceKm float64
}

func recordID(rec gjson.Result) string {
	id := rec.Get("id")
	switch {
	case !id.Exists(), id.Type == gjson.Null, id.Type == gjson.False:
		return ""
	case id.Type == gjson.Number && id.Num == 0:
		return ""
	}
	return id.String()
}

func parseAsteroid(rec gjson.Result) (*models.Asteroid, error) {
	nasaID := recordID(rec)
	if nasaID == "" {
		return nil, models.ErrMissingIdentifier
	}

	name := "Unknown"
	if n := rec.Get("name"); n.Exists() && n.Type != gjson.Null {
		name = n.String()
	}

	return &models.Asteroid{
		NasaID:                 nasaID,
		Name:                   name,
		AbsoluteMagnitude:      optionalFloat(rec.Get("absolute_magnitude_h")),
		IsPotentiallyHazardous: rec.Get("is_potentially_hazardous_asteroid").Bool(),
		NasaJPLURL:             rec.Get("nasa_jpl_url").String(),
	}, nil
}

// parseApproach normalizes one close_approach_data entry. Velocity is taken
// from kilometers_per_second only; an entry without it is rejected.
func parseApproach(raw gjson.Result, dateKey string, loc *time.Location) (approach, error) {
	date, err := approachTime(raw, dateKey, loc)
	if err != nil {
		return approach{}, err
	}

	kms, ok := parseFloat(raw.Get("relative_velocity.kilometers_per_second"))
	if !ok {
		return approach{}, models.ErrMissingVelocity
	}

	missKm, _ := parseFloat(raw.Get("miss_distance.kilometers"))

	return approach{
		Date:           date,
		VelocityKmh:    kms * secondsPerHour,
		MissDistanceKm: missKm,
	}, nil
}

// approachTime tries close_approach_date_full, then close_approach_date, then
// the feed's date key. Date-only values resolve to midnight in loc.
func approachTime(raw gjson.Result, dateKey string, loc *time.Location) (time.Time, error) {
	if full := raw.Get("close_approach_date_full").String(); full != "" {
		if t, err := time.ParseInLocation(approachFullLayout, full, loc); err == nil {
			return t, nil
		}
	}

	if day := raw.Get("close_approach_date").String(); day != "" {
		if t, err := time.ParseInLocation(clients.DateLayout, day, loc); err == nil {
			return t, nil
		}
	}

	t, err := time.ParseInLocation(clients.DateLayout, dateKey, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("feed date key %q: %w", dateKey, clients.ErrInvalidDateFormat)
	}
	return t, nil
}

// parseFloat accepts both JSON numbers and numeric strings, which is how
// the feed encodes most measurements.
func parseFloat(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(r.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func optionalFloat(r gjson.Result) *float64 {
	f, ok := parseFloat(r)
	if !ok {
		return nil
	}
	return &f
}
