package treectx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	treectx "github.com/treectx/treectx-go"
	"github.com/treectx/treectx-go/questlog"
)

// End-to-end: a provider declares a quest store, a deep consumer watches
// it, and the scripted action sequence flows through dispatch, journal,
// and notification.
func TestQuestLogEndToEnd(t *testing.T) {
	tr := treectx.NewTree()
	store := questlog.NewStore(tr, []questlog.Quest{
		{ID: 0, Text: "Find the Master Sword"},
	})

	provider, err := treectx.Compose(treectx.Bind(questlog.Key, store))
	require.NoError(t, err)
	providerNode, err := provider.Attach(tr, tr.Root())
	require.NoError(t, err)

	middle, err := tr.NewNode(providerNode)
	require.NoError(t, err)
	consumer, err := tr.NewNode(middle)
	require.NoError(t, err)

	handle, err := treectx.ResolveStore(tr, consumer, questlog.Key)
	require.NoError(t, err)

	var snapshots [][]questlog.Quest
	sub, err := handle.Watch(func(quests []questlog.Quest) {
		snapshots = append(snapshots, quests)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.NoError(t, handle.Dispatch(questlog.Added{ID: 1, Text: "Complete a Dungeon"}))
	require.NoError(t, handle.Dispatch(questlog.Changed{
		Quest: questlog.Quest{ID: 1, Text: "Complete a Dungeon", Done: true},
	}))
	require.NoError(t, handle.Dispatch(questlog.Deleted{ID: 0}))

	require.Len(t, snapshots, 3)
	assert.Equal(t, []questlog.Quest{
		{ID: 0, Text: "Find the Master Sword"},
		{ID: 1, Text: "Complete a Dungeon"},
	}, snapshots[0])
	assert.Equal(t, []questlog.Quest{
		{ID: 0, Text: "Find the Master Sword"},
		{ID: 1, Text: "Complete a Dungeon", Done: true},
	}, snapshots[1])
	assert.Equal(t, []questlog.Quest{
		{ID: 1, Text: "Complete a Dungeon", Done: true},
	}, snapshots[2])

	assert.Equal(t, snapshots[2], handle.State())
	assert.Equal(t, uint64(3), handle.Version())

	recs := tr.Journal().Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "quests", recs[0].Store)
}

func TestUnsubscribedConsumerStaysQuiet(t *testing.T) {
	tr := treectx.NewTree()
	store := questlog.NewStore(tr, nil)
	require.NoError(t, treectx.Declare(tr, tr.Root(), questlog.Key, store))

	consumer, err := tr.NewNode(tr.Root())
	require.NoError(t, err)

	handle, err := treectx.ResolveStore(tr, consumer, questlog.Key)
	require.NoError(t, err)

	notified := 0
	sub, err := handle.Watch(func([]questlog.Quest) { notified++ })
	require.NoError(t, err)

	require.NoError(t, store.Dispatch(questlog.Added{ID: 0, Text: "First"}))
	assert.Equal(t, 1, notified)

	sub.Cancel()
	require.NoError(t, store.Dispatch(questlog.Added{ID: 1, Text: "Second"}))
	assert.Equal(t, 1, notified, "no delivery after unsubscribe")
}

func TestRemovedProviderResolvesNotFound(t *testing.T) {
	tr := treectx.NewTree()
	store := questlog.NewStore(tr, nil)

	providerNode, err := tr.NewNode(tr.Root())
	require.NoError(t, err)
	require.NoError(t, treectx.Declare(tr, providerNode, questlog.Key, store))

	// Consumer outside the provider's subtree never saw the binding;
	// a sibling consumer under root has no ancestor declaration left
	// once the provider is gone.
	sibling, err := tr.NewNode(tr.Root())
	require.NoError(t, err)

	require.NoError(t, tr.Remove(providerNode))

	_, err = treectx.Resolve(tr, sibling, questlog.Key)
	var nf *treectx.NotFoundError
	require.ErrorAs(t, err, &nf)
}
