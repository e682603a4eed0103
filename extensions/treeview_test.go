package extensions

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	treectx "github.com/treectx/treectx-go"
)

func TestRender_ShowsNodesAndBindingKeys(t *testing.T) {
	tr := treectx.NewTree()

	provider, err := tr.NewNode(tr.Root())
	require.NoError(t, err)
	require.NoError(t, treectx.Declare(tr, provider, treectx.NewKey[string]("theme"), "dark"))
	require.NoError(t, treectx.Declare(tr, provider, treectx.NewKey[int]("limit"), 3))
	_, err = tr.NewNode(provider)
	require.NoError(t, err)

	out := Render(tr)
	assert.Contains(t, out, "n0")
	assert.Contains(t, out, "n1 [limit,theme]")
	assert.Contains(t, out, "n2")
}

func TestRender_SkipsRemovedSubtrees(t *testing.T) {
	tr := treectx.NewTree()
	gone, err := tr.NewNode(tr.Root())
	require.NoError(t, err)
	require.NoError(t, tr.Remove(gone))

	assert.NotContains(t, Render(tr), "n1")
}

func TestTreeDebugExtension_LogsTreeOnError(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, nil)

	tr := treectx.NewTree(treectx.WithExtension(NewTreeDebugExtension(handler)))
	require.NoError(t, treectx.Declare(tr, tr.Root(), treectx.NewKey[string]("theme"), "dark"))

	_, err := treectx.Resolve(tr, tr.Root(), treectx.NewKey[string]("missing"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "missing")
	assert.True(t, strings.Contains(out, "theme"), "rendered tree shows live bindings")
}
