package schedule

import (
	"context"
	"fmt"
	"time"

	"AutoPublisher/internal/config"
	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/ports"
)

// StaticSource serves a weekly table held in memory, usually taken from the YAML config.
type StaticSource struct {
	entries []domain.ScheduleEntry
}

var _ ports.ScheduleSource = (*StaticSource)(nil)

// NewStaticSource keeps entries in the given order so the first match wins.
func NewStaticSource(entries []domain.ScheduleEntry) *StaticSource {
	return &StaticSource{entries: append([]domain.ScheduleEntry(nil), entries...)}
}

// FromConfig converts config rows, rejecting unknown day names.
func FromConfig(rows []config.ScheduleEntry) (*StaticSource, error) {
	entries := make([]domain.ScheduleEntry, 0, len(rows))
	for i, row := range rows {
		weekday, err := domain.ParseWeekday(row.Day)
		if err != nil {
			return nil, fmt.Errorf("schedule entry %d: %w", i, err)
		}
		entries = append(entries, domain.ScheduleEntry{Weekday: weekday, Topic: row.Topic})
	}
	return NewStaticSource(entries), nil
}

// Lookup returns the first non-blank topic for day.
func (s *StaticSource) Lookup(_ context.Context, day time.Weekday) (string, error) {
	topic, ok := domain.FindTopic(s.entries, day)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, day)
	}
	return topic, nil
}
