package questlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	treectx "github.com/treectx/treectx-go"
)

func TestReduce_AddedAppendsNotDone(t *testing.T) {
	state, err := Reduce(nil, Added{ID: 0, Text: "Find the Master Sword"})
	require.NoError(t, err)
	assert.Equal(t, []Quest{{ID: 0, Text: "Find the Master Sword"}}, state)
}

func TestReduce_AddThenDeleteRoundTrips(t *testing.T) {
	state, err := Reduce(nil, Added{ID: 1, Text: "Complete a Dungeon"})
	require.NoError(t, err)

	state, err = Reduce(state, Deleted{ID: 1})
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestReduce_ChangedMissingIDIsNoOp(t *testing.T) {
	initial := []Quest{{ID: 0, Text: "Find the Master Sword"}}

	state, err := Reduce(initial, Changed{Quest: Quest{ID: 9, Text: "Ghost", Done: true}})
	require.NoError(t, err)
	assert.Equal(t, initial, state, "no insertion on miss")
}

func TestReduce_DeletedMissingIDIsNoOp(t *testing.T) {
	initial := []Quest{{ID: 0, Text: "Find the Master Sword"}}

	state, err := Reduce(initial, Deleted{ID: 9})
	require.NoError(t, err)
	assert.Equal(t, initial, state)
}

func TestReduce_UnparsedFailsLoudly(t *testing.T) {
	initial := []Quest{{ID: 0, Text: "Find the Master Sword"}}

	state, err := Reduce(initial, Unparsed{Kind: "renmaed"})
	var unknown *treectx.UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "renmaed", unknown.Kind)
	assert.Equal(t, initial, state)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	initial := []Quest{{ID: 0, Text: "Find the Master Sword"}}

	_, err := Reduce(initial, Changed{Quest: Quest{ID: 0, Text: "Find the Master Sword", Done: true}})
	require.NoError(t, err)
	assert.False(t, initial[0].Done, "prior snapshot stays valid")
}

func TestReduce_FullScenario(t *testing.T) {
	state := []Quest{{ID: 0, Text: "Find the Master Sword"}}

	state, err := Reduce(state, Added{ID: 1, Text: "Complete a Dungeon"})
	require.NoError(t, err)
	require.Equal(t, []Quest{
		{ID: 0, Text: "Find the Master Sword"},
		{ID: 1, Text: "Complete a Dungeon"},
	}, state)

	state, err = Reduce(state, Changed{Quest: Quest{ID: 1, Text: "Complete a Dungeon", Done: true}})
	require.NoError(t, err)
	require.Equal(t, []Quest{
		{ID: 0, Text: "Find the Master Sword"},
		{ID: 1, Text: "Complete a Dungeon", Done: true},
	}, state)

	state, err = Reduce(state, Deleted{ID: 0})
	require.NoError(t, err)
	require.Equal(t, []Quest{
		{ID: 1, Text: "Complete a Dungeon", Done: true},
	}, state)
}
