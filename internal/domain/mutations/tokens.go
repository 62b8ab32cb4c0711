package mutations

import (
	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// NewTokenInsert inserts a dictionary token at a random position.
// It skips when the state carries no tokens.
func NewTokenInsert(maxSize int) domain.Mutator[*m.BytesInput] {
	return newFuncMutator[*m.BytesInput]("TokenInsert", func(st *state.State[*m.BytesInput], input *m.BytesInput) (m.MutationResult, error) {
		tokens, ok := st.Tokens()
		if !ok || tokens.Len() == 0 {
			return m.Skipped, nil
		}

		data := input.Bytes()

		room := maxSize - len(data)
		if room <= 0 {
			return m.Skipped, nil
		}

		r := st.Rand()
		token := tokens.Tokens()[randIndex(r, tokens.Len())]

		if len(token) > room {
			token = token[:room]
		}

		input.SetBytes(insertAt(data, randIndex(r, len(data)+1), token))

		return m.Mutated, nil
	})
}

// NewTokenReplace overwrites part of the input with a dictionary token.
// Tokens longer than the rest of the input are truncated.
func NewTokenReplace() domain.Mutator[*m.BytesInput] {
	return newFuncMutator[*m.BytesInput]("TokenReplace", func(st *state.State[*m.BytesInput], input *m.BytesInput) (m.MutationResult, error) {
		data := input.Bytes()
		if len(data) == 0 {
			return m.Skipped, nil
		}

		tokens, ok := st.Tokens()
		if !ok || tokens.Len() == 0 {
			return m.Skipped, nil
		}

		r := st.Rand()
		token := tokens.Tokens()[randIndex(r, tokens.Len())]
		pos := randIndex(r, len(data))

		copy(data[pos:], token)

		return m.Mutated, nil
	})
}
