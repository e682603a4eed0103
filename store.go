package treectx

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Reducer computes the next state from the current state and an action.
// It must be pure: deterministic in (state, action), no observable side
// effects. An error return (typically *UnknownActionError) rejects the
// transition and leaves the store unchanged.
type Reducer[S, A any] func(S, A) (S, error)

// AnyStore is a type-erased store for bus, journal, and extension plumbing
type AnyStore interface {
	StateAny() any
	Version() uint64
	Label() string
}

var storeCounter atomic.Uint64

// ReducerStore owns a single state value and applies transitions to it
// through its reducer, one dispatch at a time. It is the sole mutator of
// that state; resolvers share it read-only.
type ReducerStore[S, A any] struct {
	mu      sync.Mutex
	state   S
	version uint64
	reduce  Reducer[S, A]
	tree    *Tree
	label   string
}

// StoreOption is a modifier for stores
type StoreOption func(*storeConfig)

type storeConfig struct {
	label string
}

// WithLabel returns an option that names a store in journal records,
// extension operations, and metrics
func WithLabel(label string) StoreOption {
	return func(cfg *storeConfig) {
		cfg.label = label
	}
}

// NewReducerStore creates a store holding initial, transitioned by r.
// A nil tree produces a standalone store: dispatches still serialize and
// apply, but nothing is journaled and nobody is notified.
func NewReducerStore[S, A any](t *Tree, r Reducer[S, A], initial S, opts ...StoreOption) *ReducerStore[S, A] {
	cfg := &storeConfig{
		label: fmt.Sprintf("store-%d", storeCounter.Add(1)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &ReducerStore[S, A]{
		state:  initial,
		reduce: r,
		tree:   t,
		label:  cfg.label,
	}
}

// State returns a snapshot of the current state. Observers never see a
// partially applied transition: the swap happens atomically under the
// store's lock.
func (s *ReducerStore[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StateAny implements AnyStore
func (s *ReducerStore[S, A]) StateAny() any {
	return s.State()
}

// Version returns the number of successful dispatches applied so far
func (s *ReducerStore[S, A]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Label implements AnyStore
func (s *ReducerStore[S, A]) Label() string {
	return s.label
}

// Dispatch applies action through the reducer and swaps in the new state.
// Dispatches serialize on the store's lock, so concurrent callers observe
// a total order of transitions. A reducer error leaves state and version
// untouched and is returned to the caller; a successful dispatch is
// journaled and then notifies the store's subscribers. Notification runs
// after the state lock is released, so handlers may call State freely.
func (s *ReducerStore[S, A]) Dispatch(action A) error {
	next := func() (any, error) {
		s.mu.Lock()
		nextState, err := s.reduce(s.state, action)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.state = nextState
		s.version++
		version := s.version
		s.mu.Unlock()

		if s.tree != nil {
			s.tree.journal.record(s.label, fmt.Sprintf("%T", action), version)
			s.tree.bus.Notify(s)
		}
		return nil, nil
	}

	if s.tree == nil {
		_, err := next()
		return err
	}

	op := &Operation{Kind: OpDispatch, Store: s}
	_, err := s.tree.wrapOperation(op, next)
	return err
}

// StoreHandle couples a store with the consumer node that resolved it,
// giving that node ergonomic access to state, dispatch, and watching
type StoreHandle[S, A any] struct {
	tree  *Tree
	node  NodeID
	store *ReducerStore[S, A]
}

// ResolveStore resolves a store-backed binding for n and returns a handle
// bound to (n, store)
func ResolveStore[S, A any](t *Tree, n NodeID, key Key[*ReducerStore[S, A]]) (*StoreHandle[S, A], error) {
	store, err := Resolve(t, n, key)
	if err != nil {
		return nil, err
	}
	return &StoreHandle[S, A]{tree: t, node: n, store: store}, nil
}

// State returns the store's current state snapshot
func (h *StoreHandle[S, A]) State() S {
	return h.store.State()
}

// Dispatch sends an action to the store
func (h *StoreHandle[S, A]) Dispatch(action A) error {
	return h.store.Dispatch(action)
}

// Version returns the store's dispatch count
func (h *StoreHandle[S, A]) Version() uint64 {
	return h.store.Version()
}

// Store returns the underlying store
func (h *StoreHandle[S, A]) Store() *ReducerStore[S, A] {
	return h.store
}

// Watch subscribes the handle's node to the store and passes a state
// snapshot to fn on every change
func (h *StoreHandle[S, A]) Watch(fn func(S)) (*Subscription, error) {
	return h.tree.bus.Subscribe(h.node, h.store, func() {
		fn(h.store.State())
	})
}
