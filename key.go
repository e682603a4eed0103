package treectx

// Key is a type-safe binding key. Two keys with the same name address the
// same binding channel; the type parameter only constrains the typed
// helpers built on top of it.
type Key[T any] struct {
	name string
	def  *T
}

// NewKey creates a key with the given name. Resolving it with no visible
// binding fails with NotFoundError.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// NewKeyDefault creates a key that falls back to def when no ancestor
// declared a binding. The default is the only sanctioned way a resolve
// recovers from a missing declaration.
func NewKeyDefault[T any](name string, def T) Key[T] {
	return Key[T]{name: name, def: &def}
}

// Name returns the key's name (for debugging)
func (k Key[T]) Name() string {
	return k.name
}

// HasDefault reports whether the key carries a declared default
func (k Key[T]) HasDefault() bool {
	return k.def != nil
}
