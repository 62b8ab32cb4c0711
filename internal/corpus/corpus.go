// Package corpus stores testcases for the fuzzing core.
package corpus

import (
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// Corpus is an ordered store of testcases.
type Corpus[I m.Input] interface {
	// Add stores tc and returns its new id.
	Add(tc *m.Testcase[I]) (m.CorpusID, error)
	// Get returns the live testcase stored under id.
	Get(id m.CorpusID) (*m.Testcase[I], error)
	// Count returns the number of stored testcases.
	Count() int
	// IDs returns all ids in insertion order.
	IDs() []m.CorpusID
	// First returns the oldest id.
	First() (m.CorpusID, bool)
	// Next returns the id inserted after id.
	Next(id m.CorpusID) (m.CorpusID, bool)
	// Replace swaps the testcase stored under id and returns the old one.
	Replace(id m.CorpusID, tc *m.Testcase[I]) (*m.Testcase[I], error)
	// Remove deletes the testcase stored under id and returns it.
	Remove(id m.CorpusID) (*m.Testcase[I], error)
	// Persist flushes changes made to the testcase stored under id.
	Persist(id m.CorpusID) error
}

// InMemoryCorpus keeps testcases in memory only.
type InMemoryCorpus[I m.Input] struct {
	entries map[m.CorpusID]*m.Testcase[I]
	order   []m.CorpusID
	nextID  m.CorpusID
}

// NewInMemoryCorpus creates an empty in-memory corpus.
func NewInMemoryCorpus[I m.Input]() *InMemoryCorpus[I] {
	return &InMemoryCorpus[I]{entries: make(map[m.CorpusID]*m.Testcase[I])}
}

// Add implements Corpus.
func (c *InMemoryCorpus[I]) Add(tc *m.Testcase[I]) (m.CorpusID, error) {
	if tc == nil {
		return 0, m.IllegalArgument("cannot add a nil testcase")
	}

	id := c.nextID
	c.nextID++

	c.entries[id] = tc
	c.order = append(c.order, id)

	return id, nil
}

// Get implements Corpus.
func (c *InMemoryCorpus[I]) Get(id m.CorpusID) (*m.Testcase[I], error) {
	tc, ok := c.entries[id]
	if !ok {
		return nil, m.KeyNotFound("corpus id %d", id)
	}

	return tc, nil
}

// Count implements Corpus.
func (c *InMemoryCorpus[I]) Count() int {
	return len(c.order)
}

// IDs implements Corpus.
func (c *InMemoryCorpus[I]) IDs() []m.CorpusID {
	ids := make([]m.CorpusID, len(c.order))
	copy(ids, c.order)

	return ids
}

// First implements Corpus.
func (c *InMemoryCorpus[I]) First() (m.CorpusID, bool) {
	if len(c.order) == 0 {
		return 0, false
	}

	return c.order[0], true
}

// Next implements Corpus.
func (c *InMemoryCorpus[I]) Next(id m.CorpusID) (m.CorpusID, bool) {
	pos := c.position(id)
	if pos < 0 || pos+1 >= len(c.order) {
		return 0, false
	}

	return c.order[pos+1], true
}

// Replace implements Corpus.
func (c *InMemoryCorpus[I]) Replace(id m.CorpusID, tc *m.Testcase[I]) (*m.Testcase[I], error) {
	old, ok := c.entries[id]
	if !ok {
		return nil, m.KeyNotFound("corpus id %d", id)
	}

	if tc == nil {
		return nil, m.IllegalArgument("cannot replace corpus id %d with a nil testcase", id)
	}

	c.entries[id] = tc

	return old, nil
}

// Remove implements Corpus.
func (c *InMemoryCorpus[I]) Remove(id m.CorpusID) (*m.Testcase[I], error) {
	old, ok := c.entries[id]
	if !ok {
		return nil, m.KeyNotFound("corpus id %d", id)
	}

	delete(c.entries, id)

	if pos := c.position(id); pos >= 0 {
		c.order = append(c.order[:pos], c.order[pos+1:]...)
	}

	return old, nil
}

// Persist implements Corpus. Memory needs no flushing.
func (c *InMemoryCorpus[I]) Persist(id m.CorpusID) error {
	if _, ok := c.entries[id]; !ok {
		return m.KeyNotFound("corpus id %d", id)
	}

	return nil
}

func (c *InMemoryCorpus[I]) position(id m.CorpusID) int {
	for i, other := range c.order {
		if other == id {
			return i
		}
	}

	return -1
}
