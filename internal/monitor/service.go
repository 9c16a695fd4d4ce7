package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/common"
	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/datastore"
	"github.com/aleister1102/futwatch/internal/feed"
	"github.com/aleister1102/futwatch/internal/fetcher"
	"github.com/aleister1102/futwatch/internal/models"
)

// Notifier forwards events to an external sink. Implementations must treat
// delivery failure as non-fatal; the cycle never depends on it.
type Notifier interface {
	Notify(ctx context.Context, event models.ChangeEvent) error
}

// Service runs detection cycles across all configured targets. Each cycle
// fetches every target concurrently, diffs against stored history and
// dispatches surviving events to the feed, the change log and the notifier.
type Service struct {
	targets   []config.TargetConfig
	fetcher   *fetcher.Fetcher
	snapshots *datastore.SnapshotStore
	events    *datastore.EventStore
	feed      *feed.Feed
	processor *Processor
	notifier  Notifier
	logger    zerolog.Logger
}

// ServiceBuilder provides fluent interface for building the monitor service
type ServiceBuilder struct {
	service *Service
}

// NewServiceBuilder creates a new service builder
func NewServiceBuilder(logger zerolog.Logger) *ServiceBuilder {
	return &ServiceBuilder{
		service: &Service{
			logger: logger.With().Str("module", "MonitorService").Logger(),
		},
	}
}

// WithTargets sets the monitored targets
func (sb *ServiceBuilder) WithTargets(targets []config.TargetConfig) *ServiceBuilder {
	sb.service.targets = targets
	return sb
}

// WithFetcher sets the target fetcher
func (sb *ServiceBuilder) WithFetcher(f *fetcher.Fetcher) *ServiceBuilder {
	sb.service.fetcher = f
	return sb
}

// WithSnapshotStore sets the snapshot history store
func (sb *ServiceBuilder) WithSnapshotStore(ss *datastore.SnapshotStore) *ServiceBuilder {
	sb.service.snapshots = ss
	return sb
}

// WithEventStore sets the durable change log, optional
func (sb *ServiceBuilder) WithEventStore(es *datastore.EventStore) *ServiceBuilder {
	sb.service.events = es
	return sb
}

// WithFeed sets the rolling in-memory feed
func (sb *ServiceBuilder) WithFeed(f *feed.Feed) *ServiceBuilder {
	sb.service.feed = f
	return sb
}

// WithProcessor sets the snapshot processor
func (sb *ServiceBuilder) WithProcessor(p *Processor) *ServiceBuilder {
	sb.service.processor = p
	return sb
}

// WithNotifier sets the outbound notifier, optional
func (sb *ServiceBuilder) WithNotifier(n Notifier) *ServiceBuilder {
	sb.service.notifier = n
	return sb
}

// Build validates collaborators and returns the service
func (sb *ServiceBuilder) Build() (*Service, error) {
	s := sb.service
	if len(s.targets) == 0 {
		return nil, common.NewValidationError("targets", s.targets, "at least one target is required")
	}
	if s.fetcher == nil || s.snapshots == nil || s.feed == nil || s.processor == nil {
		return nil, common.NewError("fetcher, snapshot store, feed and processor are required")
	}
	return s, nil
}

// RunCycle polls every target once, concurrently, and waits for completion.
func (s *Service) RunCycle(ctx context.Context) {
	started := time.Now()

	var wg sync.WaitGroup
	for _, target := range s.targets {
		wg.Add(1)
		go func(target config.TargetConfig) {
			defer wg.Done()
			s.processTarget(ctx, target)
		}(target)
	}
	wg.Wait()

	s.logger.Debug().
		Int("targets", len(s.targets)).
		Dur("elapsed", time.Since(started)).
		Msg("Cycle complete")
}

// processTarget runs one target through fetch, diff and dispatch. A panic in
// the pipeline is contained to this target and surfaces as an error event.
func (s *Service) processTarget(ctx context.Context, target config.TargetConfig) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("target", target.Name).
				Interface("panic", r).
				Msg("Recovered from panic in target cycle")
			s.dispatch(ctx, s.errorEvent(target, fmt.Errorf("panic: %v", r)))
		}
	}()

	outcome, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		s.logger.Warn().Err(err).Str("target", target.Name).Msg("Fetch failed")
		s.dispatch(ctx, s.errorEvent(target, err))
		return
	}
	if outcome.NotModified {
		return
	}

	prev, err := s.previousSnapshot(target.Name)
	if err != nil {
		s.logger.Error().Err(err).Str("target", target.Name).Msg("Failed to load snapshot history")
		s.dispatch(ctx, s.errorEvent(target, err))
		return
	}

	event, produced, err := s.processor.Process(target, prev, outcome.Snapshot)

	// The snapshot is stored even when processing failed so the history
	// reflects what the endpoint actually served.
	if saveErr := s.snapshots.Save(outcome.Snapshot); saveErr != nil {
		s.logger.Error().Err(saveErr).Str("target", target.Name).Msg("Failed to store snapshot")
	}

	if err != nil {
		// An unparseable payload means there is nothing to diff this
		// cycle; the target simply stays quiet until it parses again.
		if errors.Is(err, ErrMalformedPayload) {
			s.logger.Warn().Err(err).Str("target", target.Name).Msg("Skipping cycle, payload not parseable")
			return
		}
		s.logger.Warn().Err(err).Str("target", target.Name).Msg("Processing failed")
		s.dispatch(ctx, s.errorEvent(target, err))
		return
	}
	if !produced {
		s.logger.Debug().Str("target", target.Name).Msg("No surviving changes")
		return
	}

	s.logger.Info().
		Str("target", target.Name).
		Str("topic", string(event.Topic)).
		Str("severity", string(event.Severity)).
		Str("headline", event.Headline).
		Msg("Change detected")
	s.dispatch(ctx, event)
}

// previousSnapshot returns the stored latest snapshot, or nil on first capture
func (s *Service) previousSnapshot(target string) (*models.Snapshot, error) {
	snapshot, err := s.snapshots.Latest(target)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// dispatch fans one event out to the feed, the change log and the notifier
func (s *Service) dispatch(ctx context.Context, event models.ChangeEvent) {
	s.feed.Append(event)

	if s.events != nil {
		if err := s.events.RecordEvent(ctx, event); err != nil {
			s.logger.Error().Err(err).Str("target", event.Target).Msg("Failed to record event")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("target", event.Target).Msg("Failed to deliver notification")
		}
	}
}

// errorEvent wraps a cycle failure into a feed event
func (s *Service) errorEvent(target config.TargetConfig, err error) models.ChangeEvent {
	topic := s.processor.classifier.Topic(target.Name, nil)
	return models.ChangeEvent{
		Timestamp: time.Now().UTC(),
		Target:    target.Name,
		Kind:      models.EventError,
		Topic:     topic,
		Severity:  models.SeverityError,
		Headline:  fmt.Sprintf("%s: cycle failed for %s", topic, target.Name),
		Lines:     []string{err.Error()},
	}
}
