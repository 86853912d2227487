package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	testCases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:00", want: 9 * 60},
		{in: "9:05", want: 9*60 + 5},
		{in: " 17:30 ", want: 17*60 + 30},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeRangeRoundTrip(t *testing.T) {
	r, err := ParseTimeRange("9:00 - 17:00")
	require.NoError(t, err)

	assert.Equal(t, "09:00 - 17:00", r.String())

	_, err = ParseTimeRange("09:00-17:00")
	assert.Error(t, err)
}

func TestTimeRangeContainsIsInclusive(t *testing.T) {
	r, err := ParseTimeRange(DefaultTimeRange)
	require.NoError(t, err)

	testCases := map[string]bool{
		"08:59": false,
		"09:00": true,
		"12:30": true,
		"17:00": true,
		"17:01": false,
	}
	for clock, want := range testCases {
		tod, err := ParseTimeOfDay(clock)
		require.NoError(t, err)
		assert.Equal(t, want, r.Contains(tod), clock)
	}
}

func TestTimeOfDayOfTruncatesSeconds(t *testing.T) {
	tod := TimeOfDayOf(time.Date(2024, 1, 1, 17, 0, 59, 0, time.UTC))
	assert.Equal(t, "17:00", tod.String())
}

func TestSplitTimeRange(t *testing.T) {
	start, end := SplitTimeRange("09:00 - 17:00")
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "17:00", end)

	start, end = SplitTimeRange("all day")
	assert.Equal(t, "all day", start)
	assert.Empty(t, end)
}
