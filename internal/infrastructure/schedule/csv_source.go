package schedule

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/ports"
)

const (
	defaultDayColumn   = "Day"
	defaultTopicColumn = "Blog Content"
)

// CSVSource reads the weekly table from a CSV file on every lookup.
type CSVSource struct {
	path        string
	dayColumn   string
	topicColumn string
	logger      *slog.Logger
}

var _ ports.ScheduleSource = (*CSVSource)(nil)

// NewCSVSource wires the file path and header names; empty names fall back to Day / Blog Content.
func NewCSVSource(path, dayColumn, topicColumn string, log *slog.Logger) *CSVSource {
	if dayColumn == "" {
		dayColumn = defaultDayColumn
	}
	if topicColumn == "" {
		topicColumn = defaultTopicColumn
	}
	return &CSVSource{
		path:        path,
		dayColumn:   dayColumn,
		topicColumn: topicColumn,
		logger:      log,
	}
}

// Lookup returns the topic of the first row whose day matches.
func (s *CSVSource) Lookup(ctx context.Context, day time.Weekday) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("open schedule %s: %w", s.path, err)
	}
	defer f.Close()

	entries, err := s.readEntries(f)
	if err != nil {
		return "", fmt.Errorf("read schedule %s: %w", s.path, err)
	}

	topic, ok := domain.FindTopic(entries, day)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, day)
	}
	return topic, nil
}

func (s *CSVSource) readEntries(r io.Reader) ([]domain.ScheduleEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dayIdx, topicIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, s.dayColumn):
			dayIdx = i
		case strings.EqualFold(name, s.topicColumn):
			topicIdx = i
		}
	}
	if dayIdx < 0 || topicIdx < 0 {
		return nil, fmt.Errorf("header must contain %q and %q columns", s.dayColumn, s.topicColumn)
	}

	var entries []domain.ScheduleEntry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if dayIdx >= len(record) || topicIdx >= len(record) {
			s.debug("skip short schedule row", "line", line)
			continue
		}

		weekday, err := domain.ParseWeekday(record[dayIdx])
		if err != nil {
			s.debug("skip schedule row", "line", line, "error", err)
			continue
		}
		entries = append(entries, domain.ScheduleEntry{Weekday: weekday, Topic: record[topicIdx]})
	}

	return entries, nil
}

func (s *CSVSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
