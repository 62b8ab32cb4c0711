package mutations

import (
	"encoding/binary"
	"math/bits"
	"sort"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// maxDelta bounds the arithmetic change applied by ByteAdd.
const maxDelta = 35

var (
	interestingInts = []uint64{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
		64, 127, 128, 129, 255, 256, 257, 511, 512,
		1023, 1024, 1025, 2047, 2048, 4095, 4096,
		(1 << 15) - 1, (1 << 15), (1 << 15) + 1,
		(1 << 16) - 1, (1 << 16), (1 << 16) + 1,
		(1 << 31) - 1, (1 << 31), (1 << 31) + 1,
		(1 << 32) - 1, (1 << 32), (1 << 32) + 1,
		(1 << 63) - 1, (1 << 63), (1 << 63) + 1,
		(1 << 64) - 1,
	}
	// interestingIndex[w] is the number of interestingInts that fit in w bytes.
	interestingIndex [9]int
)

func init() {
	sort.Slice(interestingInts, func(i, j int) bool {
		return interestingInts[i] < interestingInts[j]
	})

	for width := range interestingIndex {
		shift := uint(8 * width)
		interestingIndex[width] = sort.Search(len(interestingInts), func(i int) bool {
			return shift < 64 && interestingInts[i]>>shift != 0
		})
	}
}

func loadInt(data []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	default:
		return binary.LittleEndian.Uint64(data)
	}
}

func storeInt(data []byte, v uint64, width int) {
	switch width {
	case 1:
		data[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(data, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(data, uint32(v))
	default:
		binary.LittleEndian.PutUint64(data, v)
	}
}

func swapInt(v uint64, width int) uint64 {
	switch width {
	case 1:
		return v
	case 2:
		return uint64(bits.ReverseBytes16(uint16(v)))
	case 4:
		return uint64(bits.ReverseBytes32(uint32(v)))
	default:
		return bits.ReverseBytes64(v)
	}
}

func randWidth(r rand.Rand) int {
	return 1 << r.Below(4)
}

// NewBitFlip flips one bit.
func NewBitFlip() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BitFlip", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) == 0 {
			return data, false
		}

		data[randIndex(r, len(data))] ^= 1 << r.Below(8)

		return data, true
	})
}

// NewByteFlip inverts all bits of one byte.
func NewByteFlip() domain.Mutator[*m.BytesInput] {
	return byteOp("ByteFlip", func(_ rand.Rand, b byte) byte { return ^b })
}

func NewByteInc() domain.Mutator[*m.BytesInput] {
	return byteOp("ByteInc", func(_ rand.Rand, b byte) byte { return b + 1 })
}

func NewByteDec() domain.Mutator[*m.BytesInput] {
	return byteOp("ByteDec", func(_ rand.Rand, b byte) byte { return b - 1 })
}

func NewByteNeg() domain.Mutator[*m.BytesInput] {
	return byteOp("ByteNeg", func(_ rand.Rand, b byte) byte { return -b })
}

// NewByteRand replaces one byte with a different random value.
func NewByteRand() domain.Mutator[*m.BytesInput] {
	return byteOp("ByteRand", func(r rand.Rand, b byte) byte {
		return b ^ byte(1+r.Below(255))
	})
}

func byteOp(name string, op func(r rand.Rand, b byte) byte) domain.Mutator[*m.BytesInput] {
	return newBytesMutator(name, DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) == 0 {
			return data, false
		}

		i := randIndex(r, len(data))
		data[i] = op(r, data[i])

		return data, true
	})
}

// NewByteInteresting stores an interesting 8-bit value.
func NewByteInteresting() domain.Mutator[*m.BytesInput] {
	return interestingOp("ByteInteresting", 1)
}

// NewWordInteresting stores an interesting 16-bit value in either byte order.
func NewWordInteresting() domain.Mutator[*m.BytesInput] {
	return interestingOp("WordInteresting", 2)
}

// NewDwordInteresting stores an interesting 32-bit value in either byte order.
func NewDwordInteresting() domain.Mutator[*m.BytesInput] {
	return interestingOp("DwordInteresting", 4)
}

func interestingOp(name string, width int) domain.Mutator[*m.BytesInput] {
	return newBytesMutator(name, DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) < width {
			return data, false
		}

		i := randIndex(r, len(data)-width+1)
		v := interestingInts[randIndex(r, interestingIndex[width])]

		if r.Coinflip(0.5) {
			v = swapInt(v, width)
		}

		storeInt(data[i:], v, width)

		return data, true
	})
}

// NewByteAdd adds a small signed delta to an 8, 16, 32 or 64-bit integer.
// One time in ten the integer is treated as big-endian.
func NewByteAdd() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("ByteAdd", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		width := randWidth(r)
		if len(data) < width {
			return data, false
		}

		i := randIndex(r, len(data)-width+1)
		v := loadInt(data[i:], width)

		delta := r.Below(2*maxDelta+1) - maxDelta
		if delta == 0 {
			delta = 1
		}

		if r.Below(10) == 0 {
			v = swapInt(swapInt(v, width)+delta, width)
		} else {
			v += delta
		}

		storeInt(data[i:], v, width)

		return data, true
	})
}

// NewBytesDelete removes a range of bytes. Inputs shorter than two bytes are left alone.
func NewBytesDelete() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesDelete", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) < 2 {
			return data, false
		}

		n := randChunk(r, len(data)-1)
		pos := randIndex(r, len(data)-n+1)

		return append(data[:pos], data[pos+n:]...), true
	})
}

// NewBytesExpand duplicates a range of bytes in place.
func NewBytesExpand(maxSize int) domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesExpand", maxSize, func(r rand.Rand, data []byte, maxSize int) ([]byte, bool) {
		room := maxSize - len(data)
		if len(data) == 0 || room <= 0 {
			return data, false
		}

		n := randChunk(r, min(room, len(data)))
		pos := randIndex(r, len(data)-n+1)

		return insertAt(data, pos, data[pos:pos+n]), true
	})
}

// NewBytesInsert inserts a run of one byte already present in the input.
func NewBytesInsert(maxSize int) domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesInsert", maxSize, func(r rand.Rand, data []byte, maxSize int) ([]byte, bool) {
		room := maxSize - len(data)
		if len(data) == 0 || room <= 0 {
			return data, false
		}

		value := data[randIndex(r, len(data))]

		return insertRun(r, data, room, value), true
	})
}

// NewBytesRandInsert inserts a run of random bytes.
func NewBytesRandInsert(maxSize int) domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesRandInsert", maxSize, func(r rand.Rand, data []byte, maxSize int) ([]byte, bool) {
		room := maxSize - len(data)
		if room <= 0 {
			return data, false
		}

		n := randChunk(r, room)
		chunk := make([]byte, n)

		for i := range chunk {
			chunk[i] = byte(r.Next())
		}

		return insertAt(data, randIndex(r, len(data)+1), chunk), true
	})
}

// NewBytesSet overwrites a range with one byte already present in the input.
func NewBytesSet() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesSet", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) == 0 {
			return data, false
		}

		setRun(r, data, data[randIndex(r, len(data))])

		return data, true
	})
}

// NewBytesRandSet overwrites a range with a random byte.
func NewBytesRandSet() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesRandSet", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) == 0 {
			return data, false
		}

		setRun(r, data, byte(r.Next()))

		return data, true
	})
}

// NewBytesCopy copies a range of the input over another range.
func NewBytesCopy() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesCopy", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) < 2 {
			return data, false
		}

		n := randChunk(r, len(data)-1)
		from := randIndex(r, len(data)-n+1)
		to := randIndex(r, len(data)-n+1)

		if from == to {
			return data, false
		}

		copy(data[to:to+n], data[from:from+n])

		return data, true
	})
}

// NewBytesSwap exchanges two non-overlapping ranges of equal length.
func NewBytesSwap() domain.Mutator[*m.BytesInput] {
	return newBytesMutator("BytesSwap", DefaultMaxSize, func(r rand.Rand, data []byte, _ int) ([]byte, bool) {
		if len(data) < 2 {
			return data, false
		}

		n := randChunk(r, len(data)/2)
		first := randIndex(r, len(data)-2*n+1)
		second := first + n + randIndex(r, len(data)-first-2*n+1)

		tmp := make([]byte, n)
		copy(tmp, data[first:first+n])
		copy(data[first:first+n], data[second:second+n])
		copy(data[second:second+n], tmp)

		return data, true
	})
}

// NewSplice joins a prefix of the input with a suffix of another corpus entry.
func NewSplice(maxSize int) domain.Mutator[*m.BytesInput] {
	return newFuncMutator[*m.BytesInput]("Splice", func(st *state.State[*m.BytesInput], input *m.BytesInput) (m.MutationResult, error) {
		data := input.Bytes()
		if len(data) == 0 {
			return m.Skipped, nil
		}

		other, ok := otherTestcase(st)
		if !ok || other.Input.Len() < 2 {
			return m.Skipped, nil
		}

		r := st.Rand()
		head := randIndex(r, len(data)) + 1
		tail := other.Input.Bytes()[randIndex(r, other.Input.Len()):]

		if head+len(tail) > maxSize {
			tail = tail[:max(0, maxSize-head)]
		}

		spliced := make([]byte, 0, head+len(tail))
		spliced = append(spliced, data[:head]...)
		spliced = append(spliced, tail...)
		input.SetBytes(spliced)

		return m.Mutated, nil
	})
}

func insertRun(r rand.Rand, data []byte, room int, value byte) []byte {
	n := randChunk(r, room)
	chunk := make([]byte, n)

	for i := range chunk {
		chunk[i] = value
	}

	return insertAt(data, randIndex(r, len(data)+1), chunk)
}

func setRun(r rand.Rand, data []byte, value byte) {
	n := randChunk(r, len(data))
	pos := randIndex(r, len(data)-n+1)

	for i := pos; i < pos+n; i++ {
		data[i] = value
	}
}

// insertAt returns data with chunk inserted before pos. chunk may alias data.
func insertAt(data []byte, pos int, chunk []byte) []byte {
	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pos]...)
	out = append(out, chunk...)
	out = append(out, data[pos:]...)

	return out
}
