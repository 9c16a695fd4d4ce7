// Package feed holds the rolling in-memory event feed shared by every
// target's cycle. Appends are serialized; ordering across targets within a
// cycle follows append order, not target order.
package feed

import (
	"strings"
	"sync"

	"github.com/aleister1102/futwatch/internal/models"
)

// DefaultCapacity is the number of events retained before eviction.
const DefaultCapacity = 1000

// Feed is a bounded, append-only event sequence with oldest-first eviction.
type Feed struct {
	mu       sync.RWMutex
	events   []models.ChangeEvent
	capacity int
}

// NewFeed creates a feed with the given capacity; non-positive values fall
// back to DefaultCapacity.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity}
}

// Append adds an event, evicting the oldest entries past capacity. Safe for
// concurrent use by independent target cycles.
func (f *Feed) Append(ev models.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	if overflow := len(f.events) - f.capacity; overflow > 0 {
		f.events = append(f.events[:0:0], f.events[overflow:]...)
	}
}

// Len returns the number of retained events.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.events)
}

// Query selects retained events oldest-first. Zero-valued filter fields
// match everything.
type Query struct {
	Kind     models.EventKind
	Topic    models.Topic
	Severity models.Severity
	// Search matches case-insensitively against headline and diff lines.
	Search string
}

// Events returns the events matching q, oldest-first.
func (f *Feed) Events(q Query) []models.ChangeEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []models.ChangeEvent
	for _, ev := range f.events {
		if matches(ev, q) {
			out = append(out, ev)
		}
	}
	return out
}

// LatestChange returns the most recent change event for a topic.
func (f *Feed) LatestChange(topic models.Topic) (models.ChangeEvent, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for i := len(f.events) - 1; i >= 0; i-- {
		ev := f.events[i]
		if ev.Kind == models.EventChange && ev.Topic == topic {
			return ev, true
		}
	}
	return models.ChangeEvent{}, false
}

func matches(ev models.ChangeEvent, q Query) bool {
	if q.Kind != "" && ev.Kind != q.Kind {
		return false
	}
	if q.Topic != "" && ev.Topic != q.Topic {
		return false
	}
	if q.Severity != "" && ev.Severity != q.Severity {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		haystack := strings.ToLower(ev.Headline + " " + strings.Join(ev.Lines, " "))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
