package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/ports"
)

// TopicResolver maps the current day to the topic planned for it.
type TopicResolver struct {
	source   ports.ScheduleSource
	location *time.Location
}

// NewTopicResolver evaluates weekdays in loc (UTC when nil).
func NewTopicResolver(source ports.ScheduleSource, loc *time.Location) *TopicResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &TopicResolver{source: source, location: loc}
}

// ResolveTopic returns today's topic or an error wrapping domain.ErrScheduleNotFound.
func (r *TopicResolver) ResolveTopic(ctx context.Context, now time.Time) (string, error) {
	if r.source == nil {
		return "", fmt.Errorf("schedule source is not configured")
	}

	day := now.In(r.location).Weekday()
	topic, err := r.source.Lookup(ctx, day)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			return "", err
		}
		return "", fmt.Errorf("lookup schedule for %s: %w", day, err)
	}
	return topic, nil
}
