package extensions

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	treectx "github.com/treectx/treectx-go"
)

func TestLoggingExtension_LogsOperations(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	tr := treectx.NewTree(treectx.WithExtension(NewLoggingExtension(handler)))
	store := treectx.NewReducerStore[int, counterAction](tr, counterReducer, 0, treectx.WithLabel("counter"))
	key := treectx.NewKey[*treectx.ReducerStore[int, counterAction]]("counter")
	require.NoError(t, treectx.Declare(tr, tr.Root(), key, store))

	_, err := treectx.Resolve(tr, tr.Root(), key)
	require.NoError(t, err)
	require.NoError(t, store.Dispatch("inc"))

	out := buf.String()
	assert.Contains(t, out, "op=resolve")
	assert.Contains(t, out, "key=counter")
	assert.Contains(t, out, "op=dispatch")
	assert.Contains(t, out, "store=counter")
	assert.Contains(t, out, "op=notify")
}

func TestLoggingExtension_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, nil)

	tr := treectx.NewTree(treectx.WithExtension(NewLoggingExtension(handler)))
	store := treectx.NewReducerStore[int, counterAction](tr, counterReducer, 0)

	require.Error(t, store.Dispatch("bogus"))

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "unknown action kind")
}
