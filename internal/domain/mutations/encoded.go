package mutations

import (
	"slices"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// maxCodeDelta bounds the change applied by EncodedAdd.
const maxCodeDelta = 10

type codesFunc func(r rand.Rand, codes []uint32, maxSize int) ([]uint32, bool)

func newCodesMutator(name string, maxSize int, fn codesFunc) domain.Mutator[*m.EncodedInput] {
	return newFuncMutator[*m.EncodedInput](name, func(st *state.State[*m.EncodedInput], input *m.EncodedInput) (m.MutationResult, error) {
		codes, ok := fn(st.Rand(), input.Codes(), maxSize)
		if !ok {
			return m.Skipped, nil
		}

		input.SetCodes(codes)

		return m.Mutated, nil
	})
}

func codeOp(name string, op func(r rand.Rand, code uint32) uint32) domain.Mutator[*m.EncodedInput] {
	return newCodesMutator(name, DefaultMaxSize, func(r rand.Rand, codes []uint32, _ int) ([]uint32, bool) {
		if len(codes) == 0 {
			return codes, false
		}

		i := randIndex(r, len(codes))
		codes[i] = op(r, codes[i])

		return codes, true
	})
}

// NewEncodedRand replaces a code with a random value. The value may lie
// outside the vocabulary; decoding folds it back in.
func NewEncodedRand() domain.Mutator[*m.EncodedInput] {
	return codeOp("EncodedRand", func(r rand.Rand, _ uint32) uint32 { return uint32(r.Next()) })
}

func NewEncodedIncrement() domain.Mutator[*m.EncodedInput] {
	return codeOp("EncodedIncrement", func(_ rand.Rand, code uint32) uint32 { return code + 1 })
}

func NewEncodedDecrement() domain.Mutator[*m.EncodedInput] {
	return codeOp("EncodedDecrement", func(_ rand.Rand, code uint32) uint32 { return code - 1 })
}

// NewEncodedAdd adds or subtracts a small value from a code.
func NewEncodedAdd() domain.Mutator[*m.EncodedInput] {
	return codeOp("EncodedAdd", func(r rand.Rand, code uint32) uint32 {
		delta := uint32(1 + r.Below(maxCodeDelta))
		if r.Coinflip(0.5) {
			return code - delta
		}

		return code + delta
	})
}

// NewEncodedDelete removes a range of codes. Inputs shorter than three codes are left alone.
func NewEncodedDelete() domain.Mutator[*m.EncodedInput] {
	return newCodesMutator("EncodedDelete", DefaultMaxSize, func(r rand.Rand, codes []uint32, _ int) ([]uint32, bool) {
		if len(codes) <= 2 {
			return codes, false
		}

		n := randChunk(r, len(codes)-1)
		pos := randIndex(r, len(codes)-n+1)

		return slices.Delete(codes, pos, pos+n), true
	})
}

// NewEncodedInsertCopy duplicates a range of codes at another position.
func NewEncodedInsertCopy(maxSize int) domain.Mutator[*m.EncodedInput] {
	return newCodesMutator("EncodedInsertCopy", maxSize, func(r rand.Rand, codes []uint32, maxSize int) ([]uint32, bool) {
		room := maxSize - len(codes)
		if len(codes) == 0 || room <= 0 {
			return codes, false
		}

		n := randChunk(r, min(room, len(codes)))
		from := randIndex(r, len(codes)-n+1)
		to := randIndex(r, len(codes)+1)

		chunk := slices.Clone(codes[from : from+n])

		return slices.Insert(codes, to, chunk...), true
	})
}

// NewEncodedCopy copies a range of codes over another range.
func NewEncodedCopy() domain.Mutator[*m.EncodedInput] {
	return newCodesMutator("EncodedCopy", DefaultMaxSize, func(r rand.Rand, codes []uint32, _ int) ([]uint32, bool) {
		if len(codes) <= 1 {
			return codes, false
		}

		n := randChunk(r, len(codes)-1)
		from := randIndex(r, len(codes)-n+1)
		to := randIndex(r, len(codes)-n+1)

		if from == to {
			return codes, false
		}

		copy(codes[to:to+n], codes[from:from+n])

		return codes, true
	})
}

// NewEncodedCrossoverInsert inserts a range of codes taken from another corpus entry.
func NewEncodedCrossoverInsert(maxSize int) domain.Mutator[*m.EncodedInput] {
	return newFuncMutator[*m.EncodedInput]("EncodedCrossoverInsert", func(st *state.State[*m.EncodedInput], input *m.EncodedInput) (m.MutationResult, error) {
		codes := input.Codes()

		room := maxSize - len(codes)
		if room <= 0 {
			return m.Skipped, nil
		}

		other, ok := otherTestcase(st)
		if !ok || other.Input.Len() == 0 {
			return m.Skipped, nil
		}

		r := st.Rand()
		src := other.Input.Codes()
		n := randChunk(r, min(room, len(src)))
		from := randIndex(r, len(src)-n+1)
		to := randIndex(r, len(codes)+1)

		input.SetCodes(slices.Insert(codes, to, slices.Clone(src[from:from+n])...))

		return m.Mutated, nil
	})
}

// NewEncodedCrossoverReplace overwrites a range of codes with codes from another corpus entry.
func NewEncodedCrossoverReplace() domain.Mutator[*m.EncodedInput] {
	return newFuncMutator[*m.EncodedInput]("EncodedCrossoverReplace", func(st *state.State[*m.EncodedInput], input *m.EncodedInput) (m.MutationResult, error) {
		codes := input.Codes()
		if len(codes) == 0 {
			return m.Skipped, nil
		}

		other, ok := otherTestcase(st)
		if !ok || other.Input.Len() == 0 {
			return m.Skipped, nil
		}

		r := st.Rand()
		src := other.Input.Codes()
		n := randChunk(r, min(len(codes), len(src)))
		from := randIndex(r, len(src)-n+1)
		to := randIndex(r, len(codes)-n+1)

		copy(codes[to:to+n], src[from:from+n])

		return m.Mutated, nil
	})
}
