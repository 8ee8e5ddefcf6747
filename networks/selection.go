package networks

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store persists the id of the selected network under a single key.
// Load returns "" when nothing has been stored yet.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, id string) error
}

// Snapshot captures the selection at dispatch time. A fetch compares its
// snapshot with the live selection on completion to detect stale results.
type Snapshot struct {
	Network    Network
	Generation uint64
}

// Selection owns the process-wide selected network.
type Selection struct {
	// writeMu orders state changes with their persistence so the stored id
	// always matches the last change.
	writeMu     sync.Mutex
	mu          sync.RWMutex
	registry    *Registry
	store       Store
	current     Network
	generation  uint64
	subscribers map[int]func(Network)
	nextSubID   int
}

// NewSelection restores the persisted selection. Unknown or unreadable ids
// fall back to the registry default.
func NewSelection(ctx context.Context, registry *Registry, store Store) *Selection {
	s := &Selection{
		registry:    registry,
		store:       store,
		current:     registry.Default(),
		subscribers: make(map[int]func(Network)),
	}

	if store == nil {
		return s
	}

	id, err := store.Load(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("could not load persisted network, using default")
	case id == "":
	default:
		if n, ok := registry.Lookup(id); ok {
			s.current = n
		} else {
			log.Warn().Str("network", id).Msg("persisted network is not in the registry, using default")
		}
	}

	return s
}

func (s *Selection) Registry() *Registry {
	return s.registry
}

func (s *Selection) Selected() Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Selection) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Network: s.current, Generation: s.generation}
}

// IsCurrent reports whether no switch happened since snap was taken.
func (s *Selection) IsCurrent(snap Snapshot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation == snap.Generation && s.current.ID == snap.Network.ID
}

// Select switches to the network with the given id. An unknown id is a no-op
// and reports false. The new id is persisted before Select returns; a
// persistence failure is returned but the in-memory switch stands.
func (s *Selection) Select(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.SelectWithSnapshot(ctx, id)
	return ok, err
}

// SelectWithSnapshot is Select, also returning the snapshot taken right after
// the switch.
func (s *Selection) SelectWithSnapshot(ctx context.Context, id string) (Snapshot, bool, error) {
	return s.selectIf(ctx, id, nil)
}

// SelectIfCurrent switches to id only while snap is still current, which
// makes it safe for undoing a switch that may have been superseded. It
// reports false when nothing changed.
func (s *Selection) SelectIfCurrent(ctx context.Context, snap Snapshot, id string) (bool, error) {
	_, ok, err := s.selectIf(ctx, id, &snap)
	return ok, err
}

func (s *Selection) selectIf(ctx context.Context, id string, expected *Snapshot) (Snapshot, bool, error) {
	n, ok := s.registry.Lookup(id)
	if !ok {
		log.Debug().Str("network", id).Msg("ignoring selection of unknown network")
		return s.Snapshot(), false, nil
	}

	s.writeMu.Lock()

	s.mu.Lock()
	if expected != nil && (s.generation != expected.Generation || s.current.ID != expected.Network.ID) {
		current := Snapshot{Network: s.current, Generation: s.generation}
		s.mu.Unlock()
		s.writeMu.Unlock()
		log.Debug().Str("network", id).Str("selected", current.Network.ID).Msg("selection moved on, not switching")
		return current, false, nil
	}
	changed := s.current.ID != n.ID
	if changed {
		s.current = n
		s.generation++
	}
	snap := Snapshot{Network: s.current, Generation: s.generation}
	subs := make([]func(Network), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	var err error
	if s.store != nil {
		if saveErr := s.store.Save(ctx, n.ID); saveErr != nil {
			log.Error().Err(saveErr).Str("network", n.ID).Msg("failed to persist selected network")
			err = fmt.Errorf("persist selected network %s: %w", n.ID, saveErr)
		}
	}
	s.writeMu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(n)
		}
	}

	return snap, true, err
}

// Subscribe registers fn to be called after every change of network. The
// returned func removes the subscription.
func (s *Selection) Subscribe(fn func(Network)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
