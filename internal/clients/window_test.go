package clients

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow_Defaults(t *testing.T) {
	now := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	w := NewWindow(time.Time{}, time.Time{}, now, DefaultWindowDays, time.UTC)

	assert.Equal(t, "2024-01-01", w.StartString())
	assert.Equal(t, "2024-01-08", w.EndString())
}

func TestNewWindow_ExplicitStartDefaultsEnd(t *testing.T) {
	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 2, 27, 18, 0, 0, 0, time.UTC)

	w := NewWindow(start, time.Time{}, now, 7, time.UTC)

	assert.Equal(t, "2024-02-27", w.StartString())
	assert.Equal(t, "2024-03-05", w.EndString())
}

func TestParseWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid strings", func(t *testing.T) {
		w, err := ParseWindow("2024-01-01", "2024-01-08", now, 7, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01 - 2024-01-08", w.String())
	})

	t.Run("empty strings use defaults", func(t *testing.T) {
		w, err := ParseWindow("", "", now, 3, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-04", w.EndString())
	})

	for _, bad := range []string{"01/03/2024", "2024-1-3", "2024-Jan-03", "tomorrow"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseWindow(bad, "", now, 7, time.UTC)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDateFormat))
		})
	}

	t.Run("rejects bad end", func(t *testing.T) {
		_, err := ParseWindow("2024-01-01", "2024/01/08", now, 7, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidDateFormat)
	})
}

func TestWindow_Bounds(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	w, err := ParseWindow("2024-01-01", "2024-01-08", time.Now(), 7, loc)
	require.NoError(t, err)

	from, to := w.Bounds()
	assert.True(t, from.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, loc)))
	assert.True(t, to.Before(time.Date(2024, 1, 9, 0, 0, 0, 0, loc)))
	assert.True(t, to.After(time.Date(2024, 1, 8, 23, 59, 59, 0, loc)))
}
