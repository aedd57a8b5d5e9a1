package subscription

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"nftrelay/internal/events"
	"nftrelay/internal/locale"
	"nftrelay/internal/logger"
	apperrors "nftrelay/pkg/errors"
	"nftrelay/pkg/metrics"
)

// Store owns the destination -> collections mapping. Every mutation is
// validated, persisted and only then applied in memory, so a successful call
// survives a crash and a failed one leaves the store unchanged.
type Store struct {
	persister Persister
	locales   *locale.Registry
	logger    logger.Logger

	// writeMu serializes mutations end to end, including the persist call.
	writeMu sync.Mutex
	mu      sync.RWMutex
	records State
}

func NewStore(persister Persister, locales *locale.Registry, log logger.Logger) *Store {
	return &Store{
		persister: persister,
		locales:   locales,
		logger:    log,
		records:   make(State),
	}
}

// Load replaces the in-memory state with what the persister holds. Missing or
// unreadable state is not fatal: the store starts empty and a warning is logged.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err := s.persister.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptState) {
			s.logger.WarnwCtx(ctx, "Subscription state is corrupt, starting empty", "error", err)
		} else {
			s.logger.WarnwCtx(ctx, "Failed to load subscription state, starting empty", "error", err)
		}
		state = make(State)
	}

	records := make(State, len(state))
	for dest, rec := range state {
		records[dest] = s.sanitize(ctx, dest, rec)
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.publishMetrics()
	s.logger.InfowCtx(ctx, "Subscription state loaded", "destinations", len(records))
	return nil
}

func (s *Store) sanitize(ctx context.Context, dest string, rec Record) Record {
	out := Record{Locale: s.locales.DefaultCode()}
	if code, ok := s.locales.Normalize(rec.Locale); ok {
		out.Locale = code
	}

	seen := make(map[string]struct{}, len(rec.Collections))
	for _, c := range rec.Collections {
		if err := events.ValidateCollectionID(c); err != nil {
			s.logger.WarnwCtx(ctx, "Dropping invalid stored collection", "destination", dest, "collection_id", c)
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out.Collections = append(out.Collections, c)
	}
	sort.Strings(out.Collections)
	return out
}

// Add starts tracking collectionID for destination. It reports false, with no
// error, when the collection was already tracked.
func (s *Store) Add(ctx context.Context, destination, collectionID string) (bool, error) {
	if err := validateDestination(destination); err != nil {
		return false, err
	}
	if err := events.ValidateCollectionID(collectionID); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.record(destination)
	if current.has(collectionID) {
		return false, nil
	}

	if err := s.commit(ctx, destination, current.with(collectionID)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove stops tracking one collection. It reports false when the collection
// was not tracked.
func (s *Store) Remove(ctx context.Context, destination, collectionID string) (bool, error) {
	if err := validateDestination(destination); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.record(destination)
	if !current.has(collectionID) {
		return false, nil
	}

	if err := s.commit(ctx, destination, current.without(collectionID)); err != nil {
		return false, err
	}
	return true, nil
}

// Clear stops all tracking for destination and returns how many collections
// were dropped. The locale preference is kept.
func (s *Store) Clear(ctx context.Context, destination string) (int, error) {
	if err := validateDestination(destination); err != nil {
		return 0, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.record(destination)
	if len(current.Collections) == 0 {
		return 0, nil
	}

	if err := s.commit(ctx, destination, Record{Locale: current.Locale}); err != nil {
		return 0, err
	}
	return len(current.Collections), nil
}

// SetLocale stores the language preference. Unsupported codes are rejected
// with a validation error and leave the previous preference in place.
func (s *Store) SetLocale(ctx context.Context, destination, code string) error {
	if err := validateDestination(destination); err != nil {
		return err
	}

	normalized, ok := s.locales.Normalize(code)
	if !ok {
		return apperrors.ErrValidation.
			WithMessage("unsupported language code %q", code).
			WithDetail("supported", s.locales.Codes())
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.record(destination)
	if current.Locale == normalized {
		return nil
	}

	next := current.clone()
	next.Locale = normalized
	return s.commit(ctx, destination, next)
}

func (s *Store) Locale(destination string) string {
	return s.record(destination).Locale
}

// List returns the collections destination tracks, sorted.
func (s *Store) List(destination string) []string {
	rec := s.record(destination)
	if len(rec.Collections) == 0 {
		return []string{}
	}
	return append([]string(nil), rec.Collections...)
}

// All returns every destination currently tracking at least one collection,
// sorted by destination.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.records))
	for dest, rec := range s.records {
		if len(rec.Collections) == 0 {
			continue
		}
		entries = append(entries, Entry{
			Destination: dest,
			Collections: append([]string(nil), rec.Collections...),
			Locale:      rec.Locale,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Destination < entries[j].Destination
	})
	return entries
}

// record returns a copy of destination's record, or the default one.
func (s *Store) record(destination string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[destination]; ok {
		return rec.clone()
	}
	return Record{Locale: s.locales.DefaultCode()}
}

// commit persists next and then applies it. A record that holds nothing but
// defaults is deleted instead of stored. Callers hold writeMu.
func (s *Store) commit(ctx context.Context, destination string, next Record) error {
	drop := len(next.Collections) == 0 && next.Locale == s.locales.DefaultCode()

	var err error
	if drop {
		err = s.persister.Delete(ctx, destination)
	} else {
		err = s.persister.Put(ctx, destination, next)
	}
	if err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to persist subscription change",
			"destination", destination,
			"error", err,
		)
		return apperrors.ErrPersistence.WithCause(err).WithDetail("destination", destination)
	}

	s.mu.Lock()
	if drop {
		delete(s.records, destination)
	} else {
		s.records[destination] = next
	}
	s.mu.Unlock()

	s.publishMetrics()
	return nil
}

func (s *Store) publishMetrics() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	destinations, collections := 0, 0
	for _, rec := range s.records {
		if len(rec.Collections) > 0 {
			destinations++
			collections += len(rec.Collections)
		}
	}
	metrics.SetSubscriptionsActive(destinations, collections)
}

func validateDestination(destination string) error {
	if strings.TrimSpace(destination) == "" {
		return apperrors.ErrValidation.WithMessage("destination is required")
	}
	return nil
}
