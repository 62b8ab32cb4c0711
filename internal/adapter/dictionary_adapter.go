package adapter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// DictionaryAdapter loads token dictionaries in the AFL/libFuzzer format:
//
//	# comment
//	kw1="GET"
//	"\x00\xffmagic"
type DictionaryAdapter interface {
	Load(paths []string) (*m.Tokens, error)
	Parse(r io.Reader, name string) ([][]byte, error)
}

// LocalDictionaryAdapter reads dictionaries from the local filesystem.
type LocalDictionaryAdapter struct{}

// NewLocalDictionaryAdapter constructs a LocalDictionaryAdapter.
func NewLocalDictionaryAdapter() *LocalDictionaryAdapter {
	return &LocalDictionaryAdapter{}
}

// Load parses every file in paths into one dictionary. Duplicates are dropped.
func (a *LocalDictionaryAdapter) Load(paths []string) (*m.Tokens, error) {
	tokens := m.NewTokens()

	for _, path := range paths {
		// #nosec G304 - dictionary paths are supplied by the user on purpose
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open dictionary: %w", err)
		}

		entries, err := a.Parse(f, path)
		_ = f.Close()

		if err != nil {
			return nil, err
		}

		tokens.AddAll(entries)
	}

	return tokens, nil
}

// Parse reads dictionary entries from r. name is only used in errors.
func (a *LocalDictionaryAdapter) Parse(r io.Reader, name string) ([][]byte, error) {
	var entries [][]byte

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		start := bytes.IndexByte(text, '"')
		end := bytes.LastIndexByte(text, '"')

		if start < 0 || end <= start || end != len(text)-1 {
			return nil, m.IllegalArgument("%s:%d: entry must be a quoted string", name, line)
		}

		entry, err := unescapeEntry(text[start+1 : end])
		if err != nil {
			return nil, m.IllegalArgument("%s:%d: %v", name, line, err)
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", name, err)
	}

	return entries, nil
}

func unescapeEntry(raw []byte) ([]byte, error) {
	out := make([]byte, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}

		if i+1 >= len(raw) {
			return nil, errors.New("dangling escape")
		}

		i++

		switch raw[i] {
		case '\\', '"':
			out = append(out, raw[i])
		case 'x':
			if i+2 >= len(raw) {
				return nil, errors.New("short hex escape")
			}

			v, err := strconv.ParseUint(string(raw[i+1:i+3]), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("bad hex escape %q", raw[i-1:i+3])
			}

			out = append(out, byte(v))
			i += 2
		default:
			return nil, fmt.Errorf("unknown escape \\%c", raw[i])
		}
	}

	return out, nil
}
