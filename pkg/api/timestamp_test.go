package api_test

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskodos/pkg/api"
)

func TestParseTimeIn(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := map[string]struct {
		in       string
		wantDate string
		wantTime string
	}{
		"zoned evening stays on its day": {in: "2024-03-10T22:00:00-04:00", wantDate: "2024-03-10", wantTime: "22:00"},
		"utc converted into zone":        {in: "2024-03-11T02:30:00Z", wantDate: "2024-03-10", wantTime: "22:30"},
		"naive kept as written":          {in: "2024-03-10T23:15:00", wantDate: "2024-03-10", wantTime: "23:15"},
		"fractional seconds":             {in: "2024-03-10T08:00:00.123456", wantDate: "2024-03-10", wantTime: "08:00"},
		"date only":                      {in: "2024-03-10", wantDate: "2024-03-10", wantTime: "00:00"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := api.ParseTimeIn(tc.in, ny)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDate, api.DateOf(got).String())
			assert.Equal(t, tc.wantTime, got.Format("15:04"))
		})
	}

	_, err = api.ParseTimeIn("yesterday", ny)
	assert.Error(t, err)
}

func TestTimestampDecodesInConfiguredZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	api.SetLocation(ny)
	t.Cleanup(func() { api.SetLocation(nil) })

	var ts api.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-10T22:00:00-04:00"`), &ts))
	assert.Equal(t, "2024-03-10", ts.Date().String())

	now := api.WallClock(time.Date(2024, time.March, 11, 1, 0, 0, 0, time.UTC), ny)
	assert.Equal(t, ts.Date(), api.DateOf(now), "an event and the local now share a day")
}
