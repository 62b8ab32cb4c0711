package model

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Input is anything the fuzzer can store in a corpus.
type Input interface {
	// GenerateName returns a stable file name for the input.
	GenerateName(id *CorpusID) string
}

// BytesInput is a plain byte buffer input.
type BytesInput struct {
	data []byte
}

// NewBytesInput wraps a copy of data.
func NewBytesInput(data []byte) *BytesInput {
	return &BytesInput{data: bytes.Clone(data)}
}

// Bytes returns the underlying buffer.
func (b *BytesInput) Bytes() []byte {
	return b.data
}

// SetBytes replaces the underlying buffer.
func (b *BytesInput) SetBytes(data []byte) {
	b.data = data
}

// Len returns the input length in bytes.
func (b *BytesInput) Len() int {
	return len(b.data)
}

// Clone returns a deep copy.
func (b *BytesInput) Clone() *BytesInput {
	return NewBytesInput(b.data)
}

// GenerateName implements Input.
func (b *BytesInput) GenerateName(_ *CorpusID) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b.data))
}

// EncodedInput is an input represented as a sequence of vocabulary codes.
// A code only has meaning relative to the encoder that produced it.
type EncodedInput struct {
	codes []uint32
}

// encodedInputDTO is the stable serialized form of EncodedInput.
type encodedInputDTO struct {
	Codes []uint32 `json:"codes" yaml:"codes"`
}

// NewEncodedInput creates an input from codes. The slice is not copied.
func NewEncodedInput(codes []uint32) *EncodedInput {
	if codes == nil {
		codes = []uint32{}
	}

	return &EncodedInput{codes: codes}
}

// Codes returns the code sequence.
func (e *EncodedInput) Codes() []uint32 {
	return e.codes
}

// SetCodes replaces the code sequence.
func (e *EncodedInput) SetCodes(codes []uint32) {
	e.codes = codes
}

// Len returns the number of codes.
func (e *EncodedInput) Len() int {
	return len(e.codes)
}

// Clone returns a deep copy.
func (e *EncodedInput) Clone() *EncodedInput {
	return NewEncodedInput(slices.Clone(e.codes))
}

// Equal compares the code sequences.
func (e *EncodedInput) Equal(other *EncodedInput) bool {
	if e == nil || other == nil {
		return e == other
	}

	return slices.Equal(e.codes, other.codes)
}

// GenerateName implements Input. The name hashes the little-endian code bytes.
func (e *EncodedInput) GenerateName(_ *CorpusID) string {
	h := xxhash.New()

	var buf [4]byte
	for _, code := range e.codes {
		binary.LittleEndian.PutUint32(buf[:], code)
		_, _ = h.Write(buf[:])
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

// MarshalJSON implements json.Marshaler.
func (e *EncodedInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodedInputDTO{Codes: e.codes})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EncodedInput) UnmarshalJSON(data []byte) error {
	var dto encodedInputDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	*e = *NewEncodedInput(dto.Codes)

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (e *EncodedInput) MarshalYAML() (interface{}, error) {
	return encodedInputDTO{Codes: e.codes}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *EncodedInput) UnmarshalYAML(value *yaml.Node) error {
	var dto encodedInputDTO
	if err := value.Decode(&dto); err != nil {
		return err
	}

	*e = *NewEncodedInput(dto.Codes)

	return nil
}
