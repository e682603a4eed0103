package treectx

// BindingEntry is one (key, value) pair of a composition
type BindingEntry struct {
	key   string
	value any
}

// Bind builds a composition entry from a typed key and value
func Bind[T any](key Key[T], value T) BindingEntry {
	return BindingEntry{key: key.name, value: value}
}

// Provider is a composed attachment unit: one node declaring several
// bindings at once, equivalent to declaring each entry in sequence as
// nested scopes, outermost-first.
type Provider struct {
	entries []BindingEntry
}

// Compose aggregates entries into a single Provider. Two entries with the
// same key would leave precedence to nesting order, so that is rejected
// with DuplicateKeyError before anything is established.
func Compose(entries ...BindingEntry) (*Provider, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.key] {
			return nil, &DuplicateKeyError{Key: e.key}
		}
		seen[e.key] = true
	}

	p := &Provider{entries: make([]BindingEntry, len(entries))}
	copy(p.entries, entries)
	return p, nil
}

// Attach creates one provider node under parent and declares every
// composed binding on it, in composition order
func (p *Provider) Attach(t *Tree, parent NodeID) (NodeID, error) {
	n, err := t.NewNode(parent)
	if err != nil {
		return InvalidNode, err
	}

	for _, e := range p.entries {
		if err := t.env.Declare(n, e.key, e.value); err != nil {
			return InvalidNode, err
		}
	}
	return n, nil
}
