package mutations

import (
	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// HavocMutations returns the byte-level mutators bounded by DefaultMaxSize.
func HavocMutations() *domain.MutatorCollection[*m.BytesInput] {
	return HavocMutationsWithMaxSize(DefaultMaxSize)
}

// HavocMutationsWithMaxSize returns the byte-level mutators with growing ones bounded by maxSize.
func HavocMutationsWithMaxSize(maxSize int) *domain.MutatorCollection[*m.BytesInput] {
	return domain.NewMutatorCollection(
		NewBitFlip(),
		NewByteFlip(),
		NewByteInc(),
		NewByteDec(),
		NewByteNeg(),
		NewByteRand(),
		NewByteInteresting(),
		NewWordInteresting(),
		NewDwordInteresting(),
		NewByteAdd(),
		NewBytesDelete(),
		NewBytesExpand(maxSize),
		NewBytesInsert(maxSize),
		NewBytesRandInsert(maxSize),
		NewBytesSet(),
		NewBytesRandSet(),
		NewBytesCopy(),
		NewBytesSwap(),
		NewSplice(maxSize),
	)
}

// TokensMutations returns the dictionary mutators.
func TokensMutations() *domain.MutatorCollection[*m.BytesInput] {
	return TokensMutationsWithMaxSize(DefaultMaxSize)
}

func TokensMutationsWithMaxSize(maxSize int) *domain.MutatorCollection[*m.BytesInput] {
	return domain.NewMutatorCollection(
		NewTokenInsert(maxSize),
		NewTokenReplace(),
	)
}

// HavocWithTokens returns HavocMutations followed by TokensMutations.
func HavocWithTokens(maxSize int) *domain.MutatorCollection[*m.BytesInput] {
	return HavocMutationsWithMaxSize(maxSize).Concat(TokensMutationsWithMaxSize(maxSize))
}

// EncodedMutations returns the mutators over encoded inputs.
func EncodedMutations(maxSize int) *domain.MutatorCollection[*m.EncodedInput] {
	return domain.NewMutatorCollection(
		NewEncodedRand(),
		NewEncodedIncrement(),
		NewEncodedDecrement(),
		NewEncodedAdd(),
		NewEncodedDelete(),
		NewEncodedInsertCopy(maxSize),
		NewEncodedCopy(),
		NewEncodedCrossoverInsert(maxSize),
		NewEncodedCrossoverReplace(),
	)
}

// BytesMutations returns HavocMutationsWithMaxSize, followed by the dictionary
// mutators when withTokens is set.
func BytesMutations(maxSize int, withTokens bool) *domain.MutatorCollection[*m.BytesInput] {
	if withTokens {
		return HavocWithTokens(maxSize)
	}

	return HavocMutationsWithMaxSize(maxSize)
}
