package treectx

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ScopedEnvironment resolves key bindings against the tree's ancestry.
// A binding declared at a node is visible to that node and its subtree;
// the nearest declaring ancestor wins. Resolution is always a fresh walk
// over live ancestors, never cached, so tree mutations are observed
// immediately.
type ScopedEnvironment struct {
	tree     *Tree
	mu       sync.RWMutex
	bindings map[NodeID]map[string]any
}

func newScopedEnvironment(t *Tree) *ScopedEnvironment {
	return &ScopedEnvironment{
		tree:     t,
		bindings: make(map[NodeID]map[string]any),
	}
}

// Declare registers a binding at n, visible to n and its subtree. A
// redeclaration of the same key at the same node replaces the value.
func (e *ScopedEnvironment) Declare(n NodeID, key string, value any) error {
	if !e.tree.Alive(n) {
		return &DeadNodeError{Node: n}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bindings[n] == nil {
		e.bindings[n] = make(map[string]any)
	}
	e.bindings[n][key] = value
	return nil
}

// Resolve walks from n through its ancestors (inclusive) and returns the
// value of the nearest binding for key, or NotFoundError
func (e *ScopedEnvironment) Resolve(n NodeID, key string) (any, error) {
	return e.resolve(n, key, nil, false)
}

func (e *ScopedEnvironment) resolve(n NodeID, key string, def any, hasDef bool) (any, error) {
	op := &Operation{Kind: OpResolve, Node: n, Key: key}

	result, err := e.tree.wrapOperation(op, func() (any, error) {
		return e.walk(n, key, def, hasDef)
	})
	if err != nil {
		return nil, err
	}

	// Record store-backed resolutions so notification targeting can be
	// checked against actual resolvers.
	if st, ok := result.(AnyStore); ok {
		e.tree.bus.markResolved(n, st)
	}
	return result, nil
}

func (e *ScopedEnvironment) walk(n NodeID, key string, def any, hasDef bool) (any, error) {
	e.tree.mu.RLock()
	defer e.tree.mu.RUnlock()
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.tree.aliveLocked(n) {
		return nil, &DeadNodeError{Node: n}
	}

	for cur := n; cur != InvalidNode; cur = e.tree.nodes[cur].parent {
		if v, ok := e.bindings[cur][key]; ok {
			return v, nil
		}
	}

	if hasDef {
		return def, nil
	}
	return nil, &NotFoundError{Key: key, Node: n}
}

// Keys returns the binding keys declared directly at n, sorted
func (e *ScopedEnvironment) Keys(n NodeID) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]string, 0, len(e.bindings[n]))
	for k := range e.bindings[n] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *ScopedEnvironment) release(ids []NodeID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range ids {
		delete(e.bindings, n)
	}
}

// Declare registers a typed binding at n
func Declare[T any](t *Tree, n NodeID, key Key[T], value T) error {
	return t.env.Declare(n, key.name, value)
}

// Resolve returns the nearest ancestor binding for key, the key's declared
// default if no ancestor declared one, or NotFoundError
func Resolve[T any](t *Tree, n NodeID, key Key[T]) (T, error) {
	var zero T

	var def any
	if key.def != nil {
		def = *key.def
	}
	v, err := t.env.resolve(n, key.name, def, key.def != nil)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, &BindingTypeError{
			Key:  key.name,
			Want: fmt.Sprintf("%T", zero),
			Got:  fmt.Sprintf("%T", v),
		}
	}
	return typed, nil
}

// Watch resolves a store-backed binding for n, subscribes n to the store,
// and re-resolves on every change, passing the fresh value to fn. It
// returns the initially resolved value alongside the subscription token.
//
// If a re-resolution fails (the provider node was removed and no higher
// ancestor declares the key) the watch cancels itself; the failure is
// reported to the tree's extensions.
func Watch[T any](t *Tree, n NodeID, key Key[T], fn func(T)) (T, *Subscription, error) {
	var zero T

	initial, err := Resolve(t, n, key)
	if err != nil {
		return zero, nil, err
	}

	st, ok := any(initial).(AnyStore)
	if !ok {
		return zero, nil, fmt.Errorf("binding %q is not store-backed", key.name)
	}

	var sub *Subscription
	sub, err = t.bus.Subscribe(n, st, func() {
		fresh, rerr := Resolve(t, n, key)
		if rerr != nil {
			// Provider gone; stop watching. Resolve already surfaced
			// the error to extensions.
			var nf *NotFoundError
			if errors.As(rerr, &nf) && sub != nil {
				sub.Cancel()
			}
			return
		}
		fn(fresh)
	})
	if err != nil {
		return zero, nil, err
	}
	return initial, sub, nil
}
