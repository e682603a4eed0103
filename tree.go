package treectx

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// NodeID addresses a node in a tree's arena. IDs are never reused: a
// removed node's ID stays dead for the lifetime of the tree, so a stale ID
// held across a mutation fails loudly instead of aliasing a new node.
type NodeID int

// InvalidNode is the parent of the root node and the result of failed
// node-creating operations.
const InvalidNode NodeID = -1

type node struct {
	parent   NodeID
	children []NodeID
	alive    bool
}

// Tree manages the node hierarchy and the lifecycle of everything scoped
// to it: bindings, stores, subscriptions, and the dispatch journal.
type Tree struct {
	mu         sync.RWMutex
	nodes      []node
	env        *ScopedEnvironment
	bus        *SubscriptionBus
	journal    *Journal
	extensions []Extension
	extMu      sync.RWMutex
}

// TreeOption is a modifier for trees
type TreeOption func(*Tree)

// WithExtension returns an option that registers an extension to a tree
func WithExtension(ext Extension) TreeOption {
	return func(t *Tree) {
		if err := t.UseExtension(ext); err != nil {
			panic(err)
		}
	}
}

// WithJournalLimit returns an option that bounds the dispatch journal
func WithJournalLimit(limit int) TreeOption {
	return func(t *Tree) {
		t.journal = newJournal(limit)
	}
}

// NewTree creates a tree with a single live root node
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		nodes:      []node{{parent: InvalidNode, alive: true}},
		extensions: []Extension{},
		journal:    newJournal(defaultJournalLimit),
	}
	t.env = newScopedEnvironment(t)
	t.bus = newSubscriptionBus(t)

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Root returns the root node's ID
func (t *Tree) Root() NodeID {
	return 0
}

// Env returns the tree's scoped environment
func (t *Tree) Env() *ScopedEnvironment {
	return t.env
}

// Bus returns the tree's subscription bus
func (t *Tree) Bus() *SubscriptionBus {
	return t.bus
}

// Journal returns the tree's dispatch journal
func (t *Tree) Journal() *Journal {
	return t.journal
}

// NewNode creates a child of parent and returns its ID
func (t *Tree) NewNode(parent NodeID) (NodeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.aliveLocked(parent) {
		return InvalidNode, &DeadNodeError{Node: parent}
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: parent, alive: true})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

// Alive reports whether n is a live node of this tree
func (t *Tree) Alive(n NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aliveLocked(n)
}

func (t *Tree) aliveLocked(n NodeID) bool {
	return n >= 0 && int(n) < len(t.nodes) && t.nodes[n].alive
}

// Parent returns n's parent. The second result is false for the root and
// for dead nodes.
func (t *Tree) Parent(n NodeID) (NodeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.aliveLocked(n) || t.nodes[n].parent == InvalidNode {
		return InvalidNode, false
	}
	return t.nodes[n].parent, true
}

// Children returns n's live children in creation order
func (t *Tree) Children(n NodeID) []NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.aliveLocked(n) {
		return nil
	}
	out := make([]NodeID, 0, len(t.nodes[n].children))
	for _, c := range t.nodes[n].children {
		if t.nodes[c].alive {
			out = append(out, c)
		}
	}
	return out
}

// Remove destroys n and its entire subtree. Every binding declared by a
// removed node is released and every subscription held by a removed node
// is cancelled. The root cannot be removed.
func (t *Tree) Remove(n NodeID) error {
	if n == t.Root() {
		return errors.New("root node cannot be removed")
	}

	t.mu.Lock()
	if !t.aliveLocked(n) {
		t.mu.Unlock()
		return &DeadNodeError{Node: n}
	}

	// Iterative subtree walk, marking dead as we go.
	removed := make([]NodeID, 0, 8)
	stack := []NodeID{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !t.nodes[cur].alive {
			continue
		}
		t.nodes[cur].alive = false
		removed = append(removed, cur)
		stack = append(stack, t.nodes[cur].children...)
	}

	parent := t.nodes[n].parent
	t.nodes[parent].children = removeElement(t.nodes[parent].children, n)
	t.mu.Unlock()

	t.env.release(removed)
	t.bus.releaseNodes(removed)
	return nil
}

// UseExtension registers an extension to the tree
func (t *Tree) UseExtension(ext Extension) error {
	t.extMu.Lock()
	t.extensions = append(t.extensions, ext)
	sort.SliceStable(t.extensions, func(i, j int) bool {
		return t.extensions[i].Order() < t.extensions[j].Order()
	})
	t.extMu.Unlock()

	return ext.Init(t)
}

func (t *Tree) snapshotExtensions() []Extension {
	t.extMu.RLock()
	defer t.extMu.RUnlock()
	exts := make([]Extension, len(t.extensions))
	copy(exts, t.extensions)
	return exts
}

// wrapOperation runs next through the extension middleware chain. The last
// registered extension wraps first, matching registration semantics of the
// ordered chain. Errors are reported to every extension's OnError.
func (t *Tree) wrapOperation(op *Operation, next func() (any, error)) (any, error) {
	exts := t.snapshotExtensions()

	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(currentNext, op)
		}
	}

	result, err := next()
	if err != nil {
		for _, ext := range exts {
			ext.OnError(err, op, t)
		}
	}
	return result, err
}

// Dispose disposes the tree's extensions
func (t *Tree) Dispose() error {
	for _, ext := range t.snapshotExtensions() {
		if err := ext.Dispose(t); err != nil {
			return fmt.Errorf("disposing extension %s: %w", ext.Name(), err)
		}
	}
	return nil
}

func removeElement[T comparable](slice []T, item T) []T {
	for i, existing := range slice {
		if existing == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
