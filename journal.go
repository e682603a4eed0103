package treectx

import (
	"sync"
	"time"
)

const defaultJournalLimit = 1000

// DispatchRecord is one successfully applied transition
type DispatchRecord struct {
	Store   string
	Kind    string
	Version uint64
	At      time.Time
}

// Journal keeps a bounded history of successful dispatches across all of a
// tree's stores, oldest first. Because reducers are pure, a journal plus
// the action stream is enough to reproduce any state; see Replay.
type Journal struct {
	mu      sync.Mutex
	records []DispatchRecord
	limit   int
}

func newJournal(limit int) *Journal {
	if limit <= 0 {
		limit = defaultJournalLimit
	}
	return &Journal{limit: limit}
}

func (j *Journal) record(store, kind string, version uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records = append(j.records, DispatchRecord{
		Store:   store,
		Kind:    kind,
		Version: version,
		At:      time.Now(),
	})
	if len(j.records) > j.limit {
		j.records = j.records[len(j.records)-j.limit:]
	}
}

// Records returns a copy of the journal, oldest first
func (j *Journal) Records() []DispatchRecord {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]DispatchRecord, len(j.records))
	copy(out, j.records)
	return out
}

// Len returns the number of retained records
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.records)
}

// Replay applies actions to initial through r and returns the final state.
// It stops at the first reducer error, returning the state reached so far.
// With a pure reducer this reproduces exactly the states a live store went
// through for the same action sequence.
func Replay[S, A any](r Reducer[S, A], initial S, actions []A) (S, error) {
	state := initial
	for _, a := range actions {
		next, err := r(state, a)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}
