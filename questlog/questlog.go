// Package questlog is a small reducer domain for an ordered quest list.
// It doubles as the canonical example wired through the treectx demo and
// integration tests.
package questlog

import (
	"fmt"

	treectx "github.com/treectx/treectx-go"
)

// Quest is one quest record
type Quest struct {
	ID   int
	Text string
	Done bool
}

// Action is the closed set of quest-log transitions. Outside packages
// cannot add kinds; actions arriving from outside the type system (for
// example deserialized input) travel as Unparsed and are rejected by the
// reducer.
type Action interface {
	questAction()
}

// Added appends a new, not-done quest
type Added struct {
	ID   int
	Text string
}

// Changed replaces the record whose ID matches Quest.ID, leaving order
// and other records untouched. A miss is a no-op.
type Changed struct {
	Quest Quest
}

// Deleted removes the record whose ID matches. A miss is a no-op.
type Deleted struct {
	ID int
}

// Unparsed carries an action kind the decoder did not recognize. The
// reducer rejects it with *treectx.UnknownActionError.
type Unparsed struct {
	Kind string
}

func (Added) questAction()    {}
func (Changed) questAction()  {}
func (Deleted) questAction()  {}
func (Unparsed) questAction() {}

// Reduce is the quest-log reducer. It never mutates the incoming slice:
// every accepted transition returns a fresh slice, so prior snapshots
// stay valid.
func Reduce(state []Quest, action Action) ([]Quest, error) {
	switch a := action.(type) {
	case Added:
		next := make([]Quest, len(state), len(state)+1)
		copy(next, state)
		return append(next, Quest{ID: a.ID, Text: a.Text}), nil

	case Changed:
		next := make([]Quest, len(state))
		copy(next, state)
		for i := range next {
			if next[i].ID == a.Quest.ID {
				next[i] = a.Quest
			}
		}
		return next, nil

	case Deleted:
		next := make([]Quest, 0, len(state))
		for _, q := range state {
			if q.ID != a.ID {
				next = append(next, q)
			}
		}
		return next, nil

	case Unparsed:
		return state, &treectx.UnknownActionError{Kind: a.Kind}

	default:
		return state, &treectx.UnknownActionError{Kind: fmt.Sprintf("%T", action)}
	}
}

// Key is the binding channel under which quest stores are declared
var Key = treectx.NewKey[*treectx.ReducerStore[[]Quest, Action]]("quests")

// NewStore creates a quest store attached to t, starting from initial
func NewStore(t *treectx.Tree, initial []Quest) *treectx.ReducerStore[[]Quest, Action] {
	return treectx.NewReducerStore(t, Reduce, initial, treectx.WithLabel("quests"))
}
