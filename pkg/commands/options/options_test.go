package options

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskodos/pkg/api"
)

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"y", "Yes", "true", "1"} {
		v, err := ParseBool(raw)
		require.NoError(t, err)
		assert.True(t, v, raw)
	}
	for _, raw := range []string{"n", "NO", "false", "0"} {
		v, err := ParseBool(raw)
		require.NoError(t, err)
		assert.False(t, v, raw)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestConfirmerYesSkipsPrompt(t *testing.T) {
	o := &ConfirmOptions{Yes: true}
	ok, err := o.Confirmer(nil, nil)("Delete?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDateOptions(t *testing.T) {
	d, err := (&DateOptions{}).Date()
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = (&DateOptions{Raw: "2024-02-29"}).Date()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = (&DateOptions{Raw: "29/02/2024"}).Date()
	assert.ErrorIs(t, err, api.ErrInvalidDate)
}

func TestRangeBounds(t *testing.T) {
	today := api.Date{Year: 2024, Month: 5, Day: 10}

	from, to, err := (&RangeOptions{From: DateOptions{Raw: "2024-05-01"}, To: DateOptions{Raw: "2024-05-31"}}).Bounds(today)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", from.String())
	assert.Equal(t, "2024-05-31", to.String())

	from, to, err = (&RangeOptions{Within: "2w"}).Bounds(today)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", from.String())
	assert.Equal(t, "2024-05-24", to.String())

	from, to, err = (&RangeOptions{From: DateOptions{Raw: "2024-12-30"}, Within: "3d"}).Bounds(today)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-30", from.String())
	assert.Equal(t, "2025-01-02", to.String())

	_, _, err = (&RangeOptions{To: DateOptions{Raw: "2024-05-31"}, Within: "1w"}).Bounds(today)
	assert.Error(t, err)

	_, _, err = (&RangeOptions{Within: "5h"}).Bounds(today)
	assert.Error(t, err)
}

func TestWithinWithoutValue(t *testing.T) {
	today := api.Date{Year: 2024, Month: 5, Day: 10}
	for args, want := range map[string]string{
		"--within":    "2024-05-17",
		"--within=3d": "2024-05-13",
		"-w":          "2024-05-17",
	} {
		var o RangeOptions
		cmd := &cobra.Command{Use: "calendar", RunE: func(*cobra.Command, []string) error { return nil }}
		AddRangeArgs(cmd, &o)
		require.NoError(t, cmd.ParseFlags([]string{args}), args)

		_, to, err := o.Bounds(today)
		require.NoError(t, err, args)
		assert.Equal(t, want, to.String(), args)
	}
}

func TestWithinIsBounded(t *testing.T) {
	today := api.Date{Year: 2024, Month: 5, Day: 10}
	for _, within := range []string{"99999999999999w", "9223372036854775807d", "3651d", "500w1d"} {
		_, _, err := (&RangeOptions{Within: within}).Bounds(today)
		assert.Error(t, err, within)
	}
	_, to, err := (&RangeOptions{Within: "3650d"}).Bounds(today)
	require.NoError(t, err)
	assert.Equal(t, 2034, to.Year)
}
