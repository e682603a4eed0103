package extensions

import (
	"fmt"
	"log/slog"
	"strings"

	dtree "github.com/m1gwings/treedrawer/tree"

	treectx "github.com/treectx/treectx-go"
)

// Render draws the live node tree with each node's directly declared
// binding keys, for debugging provider/consumer layouts.
func Render(t *treectx.Tree) string {
	root := dtree.NewTree(dtree.NodeString(nodeLabel(t, t.Root())))
	addChildren(t, t.Root(), root)
	return root.String()
}

func nodeLabel(t *treectx.Tree, n treectx.NodeID) string {
	keys := t.Env().Keys(n)
	if len(keys) == 0 {
		return fmt.Sprintf("n%d", n)
	}
	return fmt.Sprintf("n%d [%s]", n, strings.Join(keys, ","))
}

func addChildren(t *treectx.Tree, n treectx.NodeID, drawn *dtree.Tree) {
	for i, child := range t.Children(n) {
		drawn.AddChild(dtree.NodeString(nodeLabel(t, child)))
		sub, err := drawn.Child(i)
		if err != nil {
			continue
		}
		addChildren(t, child, sub)
	}
}

// TreeDebugExtension logs a rendering of the node tree whenever an
// operation fails, showing which providers were visible at the time.
type TreeDebugExtension struct {
	treectx.BaseExtension
	logger *slog.Logger
	tree   *treectx.Tree
}

// NewTreeDebugExtension creates a tree debug extension writing to handler
func NewTreeDebugExtension(handler slog.Handler) *TreeDebugExtension {
	return &TreeDebugExtension{
		BaseExtension: treectx.NewBaseExtension("tree-debug"),
		logger:        slog.New(handler),
	}
}

func (e *TreeDebugExtension) Init(t *treectx.Tree) error {
	e.tree = t
	return nil
}

func (e *TreeDebugExtension) OnError(err error, op *treectx.Operation, t *treectx.Tree) {
	e.logger.Error("operation failed",
		slog.String("op", string(op.Kind)),
		slog.Any("error", err),
		slog.String("tree", Render(t)),
	)
}
