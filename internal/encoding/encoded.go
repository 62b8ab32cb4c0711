// Package encoding converts source-like inputs to token code sequences and back.
package encoding

import (
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// Tokenizer splits raw bytes into string tokens.
type Tokenizer interface {
	Tokenize(data []byte) ([]string, error)
}

// InputEncoder turns raw bytes into an EncodedInput.
type InputEncoder interface {
	Encode(data []byte, tokenizer Tokenizer) (*m.EncodedInput, error)
}

// InputDecoder appends the bytes represented by input to out.
type InputDecoder interface {
	Decode(input *m.EncodedInput, out *[]byte) error
}

// TokenInputEncoderDecoder owns a growing vocabulary. Ids are assigned in
// first-seen order and are never reused. It is not safe for concurrent use.
type TokenInputEncoderDecoder struct {
	tokenTable map[string]uint32
	idTable    map[uint32]string
	nextID     uint32
}

// NewTokenInputEncoderDecoder creates an encoder with an empty vocabulary.
func NewTokenInputEncoderDecoder() *TokenInputEncoderDecoder {
	return &TokenInputEncoderDecoder{
		tokenTable: make(map[string]uint32),
		idTable:    make(map[uint32]string),
	}
}

// Encode tokenizes data and maps every token to its id, adding unseen tokens
// to the vocabulary.
func (ed *TokenInputEncoderDecoder) Encode(data []byte, tokenizer Tokenizer) (*m.EncodedInput, error) {
	tokens, err := tokenizer.Tokenize(data)
	if err != nil {
		return nil, err
	}

	codes := make([]uint32, 0, len(tokens))

	for _, token := range tokens {
		id, ok := ed.tokenTable[token]
		if !ok {
			id = ed.nextID
			ed.tokenTable[token] = id
			ed.idTable[id] = token
			ed.nextID++
		}

		codes = append(codes, id)
	}

	return m.NewEncodedInput(codes), nil
}

// Decode appends each token followed by one space.
//
// Codes are looked up modulo the current vocabulary size, so a code pushed
// out of range by a mutator still decodes to some token. The flip side is
// that codes decoded after the vocabulary grew may map to different tokens
// than when they were encoded. This is intentional and kept as is.
func (ed *TokenInputEncoderDecoder) Decode(input *m.EncodedInput, out *[]byte) error {
	for _, code := range input.Codes() {
		if ed.nextID == 0 {
			return m.IllegalState("id %d not in the decoder table", code)
		}

		token, ok := ed.idTable[code%ed.nextID]
		if !ok {
			return m.IllegalState("id %d not in the decoder table", code)
		}

		*out = append(*out, token...)
		*out = append(*out, ' ')
	}

	return nil
}

// ToTargetBytes decodes input into a fresh buffer.
func (ed *TokenInputEncoderDecoder) ToTargetBytes(input *m.EncodedInput) ([]byte, error) {
	out := make([]byte, 0, 8*input.Len())

	if err := ed.Decode(input, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// VocabularySize returns the number of known tokens.
func (ed *TokenInputEncoderDecoder) VocabularySize() int {
	return int(ed.nextID)
}

// Token returns the token with the given id.
func (ed *TokenInputEncoderDecoder) Token(id uint32) (string, bool) {
	token, ok := ed.idTable[id]
	return token, ok
}

// ID returns the id of token.
func (ed *TokenInputEncoderDecoder) ID(token string) (uint32, bool) {
	id, ok := ed.tokenTable[token]
	return id, ok
}

// Vocabulary returns all tokens in id order.
func (ed *TokenInputEncoderDecoder) Vocabulary() []string {
	tokens := make([]string, ed.nextID)
	for id := uint32(0); id < ed.nextID; id++ {
		tokens[id] = ed.idTable[id]
	}

	return tokens
}

// TokensFromEncoder exports the vocabulary as a token dictionary.
func TokensFromEncoder(ed *TokenInputEncoderDecoder) *m.Tokens {
	tokens := m.NewTokens()
	for _, token := range ed.Vocabulary() {
		tokens.Add([]byte(token))
	}

	return tokens
}
