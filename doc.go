// Package treectx propagates shared state down an abstract node tree
// without threading parameters through every layer, and centralizes state
// transitions in reducer stores.
//
// # Overview
//
// Treectx organizes code around four core concepts:
//
//  1. Tree: an arena of nodes, each with one parent, owning everything
//     scoped to it
//  2. ScopedEnvironment: key bindings resolved nearest-ancestor-first
//  3. ReducerStore: a single state value mutated only through a pure
//     reducer applied to dispatched actions
//  4. SubscriptionBus: change signals delivered only to nodes that asked
//     for them
//
// # Basic Usage
//
// Build a tree, declare bindings at provider nodes, resolve them from
// consumer nodes:
//
//	t := treectx.NewTree()
//
//	themeKey := treectx.NewKey[string]("theme")
//	provider, _ := t.NewNode(t.Root())
//	treectx.Declare(t, provider, themeKey, "dark")
//
//	consumer, _ := t.NewNode(provider)
//	theme, err := treectx.Resolve(t, consumer, themeKey) // "dark"
//
// Resolution walks from the consumer upward and returns the nearest
// ancestor's binding. A descendant declaring the same key shadows the
// ancestor for its own subtree only. With no visible binding and no key
// default, Resolve fails with *NotFoundError.
//
// # Stores and Dispatch
//
// A ReducerStore holds one state value and transitions it only through
// its reducer:
//
//	type CounterAction string
//
//	counter := treectx.NewReducerStore(t, func(n int, a CounterAction) (int, error) {
//	    switch a {
//	    case "inc":
//	        return n + 1, nil
//	    default:
//	        return n, &treectx.UnknownActionError{Kind: string(a)}
//	    }
//	}, 0)
//
//	counterKey := treectx.NewKey[*treectx.ReducerStore[int, CounterAction]]("counter")
//	treectx.Declare(t, provider, counterKey, counter)
//
//	counter.Dispatch("inc")
//
// Dispatches serialize per store; a reducer error leaves state unchanged
// and surfaces to the caller. Successful dispatches notify subscribers.
//
// # Watching
//
// Consumers that resolved a store-backed binding can watch it:
//
//	initial, sub, err := treectx.Watch(t, consumer, counterKey,
//	    func(s *treectx.ReducerStore[int, CounterAction]) {
//	        fmt.Println("count is now", s.State())
//	    })
//	defer sub.Cancel()
//
// Removing a node cancels its subscriptions and releases its bindings;
// descendants re-resolve against the remaining ancestry.
//
// # Composition
//
// Compose collapses several bindings into one attachment point:
//
//	p, err := treectx.Compose(
//	    treectx.Bind(counterKey, counter),
//	    treectx.Bind(themeKey, "dark"),
//	)
//	providerNode, err := p.Attach(t, t.Root())
//
// Duplicate keys in one composition fail with *DuplicateKeyError.
//
// # Extensions
//
// Extensions wrap resolve, dispatch, and notify operations, middleware
// style. See the extensions subpackage for slog logging, prometheus
// metrics, and tree rendering.
package treectx
