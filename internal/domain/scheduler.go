package domain

import (
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// Scheduler picks the next corpus entry to fuzz.
type Scheduler[I m.Input] interface {
	Next(st *state.State[I]) (m.CorpusID, error)
	OnAdd(st *state.State[I], id m.CorpusID) error
}

// QueueScheduler walks the corpus in insertion order and wraps around.
type QueueScheduler[I m.Input] struct{}

func NewQueueScheduler[I m.Input]() *QueueScheduler[I] {
	return &QueueScheduler[I]{}
}

func (QueueScheduler[I]) Next(st *state.State[I]) (m.CorpusID, error) {
	c := st.Corpus()
	if c.Count() == 0 {
		return 0, m.ErrEmptyCollection
	}

	if current := st.CorpusIDCurrent(); current != nil {
		if next, ok := c.Next(*current); ok {
			return next, nil
		}
	}

	first, _ := c.First()

	return first, nil
}

func (QueueScheduler[I]) OnAdd(_ *state.State[I], _ m.CorpusID) error {
	return nil
}

// RandScheduler picks a corpus entry uniformly at random.
type RandScheduler[I m.Input] struct{}

func NewRandScheduler[I m.Input]() *RandScheduler[I] {
	return &RandScheduler[I]{}
}

func (RandScheduler[I]) Next(st *state.State[I]) (m.CorpusID, error) {
	ids := st.Corpus().IDs()
	if len(ids) == 0 {
		return 0, m.ErrEmptyCollection
	}

	return ids[st.Rand().Below(uint64(len(ids)))], nil
}

func (RandScheduler[I]) OnAdd(_ *state.State[I], _ m.CorpusID) error {
	return nil
}
