package treectx

// Extension provides hooks into the tree's operation lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a tree
	Init(t *Tree) error

	// Wrap intercepts operations (resolve, dispatch, notify)
	Wrap(next func() (any, error), op *Operation) (any, error)

	// OnError handles errors surfaced by an operation
	OnError(err error, op *Operation, t *Tree)

	// Dispose is called when the tree is disposed
	Dispose(t *Tree) error
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(t *Tree) error {
	return nil
}

func (e *BaseExtension) Wrap(next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation, t *Tree) {
}

func (e *BaseExtension) Dispose(t *Tree) error {
	return nil
}

// Operation describes what operation is happening
type Operation struct {
	Kind  OperationKind
	Node  NodeID
	Store AnyStore
	Key   string
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpResolve indicates a binding resolution
	OpResolve OperationKind = "resolve"
	// OpDispatch indicates a store dispatch
	OpDispatch OperationKind = "dispatch"
	// OpNotify indicates subscriber notification after a dispatch
	OpNotify OperationKind = "notify"
)
