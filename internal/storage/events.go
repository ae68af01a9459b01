package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// TrackEvent appends an event named name. payload is stored as its JSON
// encoding; a nil payload is stored as "{}".
func (s *Store) TrackEvent(ctx context.Context, name string, payload any) error {
	payloadJSON := "{}"
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}
		payloadJSON = string(raw)
	}

	return s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		d.Events = append(d.Events, Event{
			ID:          d.NextIDs.Event,
			EventName:   name,
			PayloadJSON: payloadJSON,
			CreatedAt:   now,
		})
		d.NextIDs.Event++
		return true, nil
	})
}

// CountTodayEventsOfKind counts events recorded on the current local calendar
// day whose name is one of kinds.
func (s *Store) CountTodayEventsOfKind(ctx context.Context, kinds []string) (int, error) {
	var n int
	err := s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		start := startOfDay(now)
		end := start.AddDate(0, 0, 1)
		for _, e := range d.Events {
			at := e.CreatedAt.In(now.Location())
			if at.Before(start) || !at.Before(end) {
				continue
			}
			if slices.Contains(kinds, e.EventName) {
				n++
			}
		}
		return false, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
