package schedule

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AutoPublisher/internal/config"
	"AutoPublisher/internal/domain"
)

const weeklyCSV = "\ufeffDay,Blog Content,Notes\n" +
	"Monday,gardening,spring\n" +
	"Tuesday,\"cooking, quick meals\",\n" +
	"Monday,duplicate monday,\n" +
	"Someday,ignored,\n" +
	"5,weekend prep,\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVSourceLookup(t *testing.T) {
	src := NewCSVSource(writeCSV(t, weeklyCSV), "", "", nil)
	ctx := context.Background()

	tests := []struct {
		day  time.Weekday
		want string
	}{
		{time.Monday, "gardening"},
		{time.Tuesday, "cooking, quick meals"},
		{time.Friday, "weekend prep"},
	}
	for _, tt := range tests {
		got, err := src.Lookup(ctx, tt.day)
		require.NoError(t, err, tt.day)
		assert.Equal(t, tt.want, got, tt.day)
	}

	_, err := src.Lookup(ctx, time.Sunday)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestCSVSourceCustomColumns(t *testing.T) {
	path := writeCSV(t, "weekday;topic\n0;rest day\n")
	src := NewCSVSource(path, "weekday", "topic", nil)
	// Semicolons are not the CSV delimiter, so the header is a single column.
	_, err := src.Lookup(context.Background(), time.Sunday)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrScheduleNotFound)

	path = writeCSV(t, "weekday,topic\n0,rest day\n")
	src = NewCSVSource(path, "weekday", "topic", nil)
	got, err := src.Lookup(context.Background(), time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, "rest day", got)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), "", "", nil)
	_, err := src.Lookup(context.Background(), time.Monday)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestCSVSourceEmptyFile(t *testing.T) {
	src := NewCSVSource(writeCSV(t, ""), "", "", nil)
	_, err := src.Lookup(context.Background(), time.Monday)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestStaticSourceFromConfig(t *testing.T) {
	src, err := FromConfig([]config.ScheduleEntry{
		{Day: "Monday", Topic: "gardening"},
		{Day: "mon", Topic: "ignored"},
	})
	require.NoError(t, err)

	got, err := src.Lookup(context.Background(), time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "gardening", got)

	_, err = src.Lookup(context.Background(), time.Wednesday)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)

	_, err = FromConfig([]config.ScheduleEntry{{Day: "Blursday", Topic: "x"}})
	assert.Error(t, err)
}
