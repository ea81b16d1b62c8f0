package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScheduleEntry binds a weekday to the topic written on that day.
type ScheduleEntry struct {
	Weekday time.Weekday
	Topic   string
}

// ParseWeekday accepts English day names (full or three-letter, any case)
// and the Sunday-indexed numbers 0-6.
func ParseWeekday(value string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return time.Weekday(n), nil
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", value)
}

// FindTopic returns the first non-blank topic scheduled for day.
func FindTopic(entries []ScheduleEntry, day time.Weekday) (string, bool) {
	for _, entry := range entries {
		if entry.Weekday != day {
			continue
		}
		topic := strings.TrimSpace(entry.Topic)
		return topic, topic != ""
	}
	return "", false
}
