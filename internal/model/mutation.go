// Package model defines the data structures shared by the fuzzing core.
package model

import "bytes"

// MutationID identifies one elementary mutator inside a fixed-order collection.
type MutationID int

// MutationResult reports whether a mutator changed its input.
type MutationResult int

const (
	// Skipped means the mutator found nothing applicable to the input.
	Skipped MutationResult = iota
	// Mutated means the input was changed.
	Mutated
)

func (r MutationResult) String() string {
	switch r {
	case Mutated:
		return "mutated"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// LogMutationMetadataName is the metadata key of LogMutationMetadata.
const LogMutationMetadataName = "log_mutation"

// LogMutationMetadata lists the names of the mutators that produced a corpus entry.
// It is created once when the entry is accepted and never changed afterwards.
type LogMutationMetadata struct {
	List []string `json:"list" yaml:"list"`
}

// NewLogMutationMetadata creates the metadata from an already ordered name list.
func NewLogMutationMetadata(list []string) *LogMutationMetadata {
	return &LogMutationMetadata{List: list}
}

// MetadataName implements Metadata.
func (*LogMutationMetadata) MetadataName() string {
	return LogMutationMetadataName
}

// Len returns the number of logged mutator names.
func (l *LogMutationMetadata) Len() int {
	return len(l.List)
}

// TokensMetadataName is the metadata key of Tokens.
const TokensMetadataName = "tokens"

// Tokens is a dictionary of byte strings used by token mutators.
// Insertion order is kept and duplicates are dropped.
type Tokens struct {
	list [][]byte
	seen map[string]struct{}
}

// NewTokens creates a dictionary from the given tokens.
func NewTokens(tokens ...[]byte) *Tokens {
	t := &Tokens{seen: make(map[string]struct{})}
	t.AddAll(tokens)

	return t
}

// MetadataName implements Metadata.
func (*Tokens) MetadataName() string {
	return TokensMetadataName
}

// Add inserts a token and reports whether it was new. Empty tokens are ignored.
func (t *Tokens) Add(token []byte) bool {
	if len(token) == 0 {
		return false
	}

	if t.seen == nil {
		t.seen = make(map[string]struct{})
	}

	if _, ok := t.seen[string(token)]; ok {
		return false
	}

	t.seen[string(token)] = struct{}{}
	t.list = append(t.list, bytes.Clone(token))

	return true
}

// AddAll inserts every token and returns how many were new.
func (t *Tokens) AddAll(tokens [][]byte) int {
	added := 0

	for _, token := range tokens {
		if t.Add(token) {
			added++
		}
	}

	return added
}

// Tokens returns the dictionary entries. Callers must not modify them.
func (t *Tokens) Tokens() [][]byte {
	return t.list
}

// Len returns the number of entries.
func (t *Tokens) Len() int {
	return len(t.list)
}
