package model_test

import (
	"testing"
	"time"

	"github.com/existflow/journal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectType(t *testing.T) {
	for _, s := range []string{"project", "task", "milestone"} {
		pt, err := model.ParseProjectType(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(pt))
	}

	_, err := model.ParseProjectType("epic")
	assert.Error(t, err)
}

func TestParentCandidates(t *testing.T) {
	parent := int64(1)
	all := []model.Project{
		{ID: 1, Name: "Alpha"},
		{ID: 2, Name: "Alpha child", Parent: &parent},
		{ID: 3, Name: "Beta"},
		{ID: 4, Name: "Gamma"},
	}

	got := model.ParentCandidates(all[2], all)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	// A nested project may move under any top-level project, its current parent included
	got = model.ParentCandidates(all[1], all)
	assert.Len(t, got, 3)
}

func TestValidateProgress(t *testing.T) {
	assert.NoError(t, model.ValidateProgress(0))
	assert.NoError(t, model.ValidateProgress(100))
	assert.Error(t, model.ValidateProgress(-1))
	assert.Error(t, model.ValidateProgress(101))
}

func TestTimestampFormat(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 1, 12, 30, 15, 123456789, loc)

	s := model.FormatTimestamp(ts)
	assert.Equal(t, "2024-03-01T10:30:15.123Z", s)

	back, err := model.ParseTimestamp(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(ts.Truncate(time.Millisecond)))

	// RFC 3339 without fractional seconds is accepted too
	back, err = model.ParseTimestamp("2024-03-01T10:30:15Z")
	require.NoError(t, err)
	assert.Equal(t, 15, back.Second())

	_, err = model.ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestDateFormatDropsTimeOfDay(t *testing.T) {
	late := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", model.FormatDate(late))

	// Dates are taken in UTC
	east := time.Date(2024, 3, 11, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	assert.Equal(t, "2024-03-10", model.FormatDate(east))

	d, err := model.ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = model.ParseDate("10/03/2024")
	assert.Error(t, err)
}

func TestParseDateOrTimestamp(t *testing.T) {
	d, err := model.ParseDateOrTimestamp("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	ts, err := model.ParseDateOrTimestamp("2024-03-10T08:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, 8, ts.Hour())
}
