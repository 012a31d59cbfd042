package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour)
	assert.Equal(t, 30, tod.Minute)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("9am")
	assert.Error(t, err)
}

func TestTimeOfDayOrdering(t *testing.T) {
	nine := TimeOfDay{Hour: 9}
	nineThirty := TimeOfDay{Hour: 9, Minute: 30}

	assert.True(t, nine.Before(nineThirty))
	assert.False(t, nineThirty.Before(nine))
	assert.True(t, nineThirty.After(nine))
	assert.False(t, nine.Before(nine))
	assert.False(t, nine.After(nine))
}

func TestSlotContainsInclusiveBounds(t *testing.T) {
	slot := Slot{
		StartTime: TimeOfDay{Hour: 9},
		EndTime:   TimeOfDay{Hour: 12},
	}

	cases := []struct {
		name string
		at   TimeOfDay
		want bool
	}{
		{"before start", TimeOfDay{Hour: 8, Minute: 59}, false},
		{"exactly at start", TimeOfDay{Hour: 9}, true},
		{"inside window", TimeOfDay{Hour: 10, Minute: 15}, true},
		{"exactly at end", TimeOfDay{Hour: 12}, true},
		{"after end", TimeOfDay{Hour: 12, Minute: 1}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slot.Contains(tc.at))
		})
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 3, 14, 2, 30, 0, 0, loc) // 2026-03-13 21:30 UTC

	got := DateOnly(ts)
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}
