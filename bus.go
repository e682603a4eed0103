package treectx

import "sync"

// SubscriptionBus tracks which nodes want change signals from which
// stores and delivers them after every successful dispatch. Delivery
// follows subscription order, which makes a run deterministic; no ordering
// is promised between independent subscribers.
type SubscriptionBus struct {
	tree     *Tree
	mu       sync.Mutex
	subs     map[AnyStore][]*Subscription
	byNode   map[NodeID][]*Subscription
	resolved map[AnyStore]map[NodeID]bool
}

// Subscription is the token returned by Subscribe. Cancel is idempotent
// and safe after the subscribing node's removal.
type Subscription struct {
	bus       *SubscriptionBus
	node      NodeID
	store     AnyStore
	fn        func()
	cancelled bool
}

func newSubscriptionBus(t *Tree) *SubscriptionBus {
	return &SubscriptionBus{
		tree:     t,
		subs:     make(map[AnyStore][]*Subscription),
		byNode:   make(map[NodeID][]*Subscription),
		resolved: make(map[AnyStore]map[NodeID]bool),
	}
}

// Subscribe registers n's interest in store changes. fn runs on every
// successful dispatch to the store, for as long as the subscription and
// the node are alive.
func (b *SubscriptionBus) Subscribe(n NodeID, store AnyStore, fn func()) (*Subscription, error) {
	if !b.tree.Alive(n) {
		return nil, &DeadNodeError{Node: n}
	}

	sub := &Subscription{bus: b, node: n, store: store, fn: fn}

	b.mu.Lock()
	b.subs[store] = append(b.subs[store], sub)
	b.byNode[n] = append(b.byNode[n], sub)
	b.mu.Unlock()

	return sub, nil
}

// Notify delivers a change signal to every live subscriber of store, in
// subscription order. Handlers run outside the bus lock so they may
// resolve, subscribe, or dispatch further.
func (b *SubscriptionBus) Notify(store AnyStore) {
	op := &Operation{Kind: OpNotify, Store: store}

	b.tree.wrapOperation(op, func() (any, error) {
		b.mu.Lock()
		active := make([]*Subscription, 0, len(b.subs[store]))
		for _, sub := range b.subs[store] {
			if !sub.cancelled {
				active = append(active, sub)
			}
		}
		b.mu.Unlock()

		for _, sub := range active {
			// Re-check: an earlier handler may have cancelled this one.
			b.mu.Lock()
			cancelled := sub.cancelled
			b.mu.Unlock()
			if !cancelled {
				sub.fn()
			}
		}
		return len(active), nil
	})
}

// Cancel removes the subscription. Calling it twice, or after the node was
// removed, is a no-op.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}

	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.cancelled {
		return
	}
	s.cancelled = true
	b.subs[s.store] = removeElement(b.subs[s.store], s)
	if len(b.subs[s.store]) == 0 {
		delete(b.subs, s.store)
	}
	b.byNode[s.node] = removeElement(b.byNode[s.node], s)
	if len(b.byNode[s.node]) == 0 {
		delete(b.byNode, s.node)
	}
}

// Active reports whether the subscription still delivers
func (s *Subscription) Active() bool {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	return !s.cancelled
}

// Subscribers returns the number of live subscriptions for store
func (b *SubscriptionBus) Subscribers(store AnyStore) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[store])
}

// Resolved reports whether n has resolved a binding backed by store
func (b *SubscriptionBus) Resolved(n NodeID, store AnyStore) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolved[store][n]
}

func (b *SubscriptionBus) markResolved(n NodeID, store AnyStore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resolved[store] == nil {
		b.resolved[store] = make(map[NodeID]bool)
	}
	b.resolved[store][n] = true
}

func (b *SubscriptionBus) releaseNodes(ids []NodeID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, n := range ids {
		for _, sub := range b.byNode[n] {
			sub.cancelled = true
			b.subs[sub.store] = removeElement(b.subs[sub.store], sub)
			if len(b.subs[sub.store]) == 0 {
				delete(b.subs, sub.store)
			}
		}
		delete(b.byNode, n)
		for store, nodes := range b.resolved {
			delete(nodes, n)
			if len(nodes) == 0 {
				delete(b.resolved, store)
			}
		}
	}
}
