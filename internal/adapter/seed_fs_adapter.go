// Package adapter contains the filesystem and process adapters used by the fuzzer.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// recursiveSuffix marks a seed path whose sub-directories are walked too.
const recursiveSuffix = "/..."

// Seed is one initial input read from disk.
type Seed struct {
	Path string
	Data []byte
	Hash string
}

// SeedFSAdapter hides the filesystem from the workflow so seeding can be
// tested without touching the disk.
type SeedFSAdapter interface {
	// Walk traverses root. When recursive is false only root itself is listed.
	Walk(root string, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path string) ([]byte, error)

	// HashFile returns the SHA-256 hex digest of the file at path.
	HashFile(path string) (string, error)

	// Get collects the seeds found under paths. A path ending in "/..." is
	// walked recursively; a plain file path is read as a single seed.
	Get(paths []string) ([]Seed, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSeedFSAdapter reads seeds from the local filesystem.
type LocalSeedFSAdapter struct{}

// NewLocalSeedFSAdapter constructs a LocalSeedFSAdapter.
func NewLocalSeedFSAdapter() *LocalSeedFSAdapter {
	return &LocalSeedFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
// Hidden entries (corpus metadata sidecars among them) are skipped.
func (a *LocalSeedFSAdapter) Walk(root string, recursive bool, fn FilepathWalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if path != root && isHidden(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() && !recursive && path != root {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSeedFSAdapter) ReadFile(path string) ([]byte, error) {
	// #nosec G304 - seed paths are supplied by the user on purpose
	return os.ReadFile(path)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSeedFSAdapter) HashFile(path string) (string, error) {
	// #nosec G304 - seed paths are supplied by the user on purpose
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Get reads every regular file under paths, sorted by path. Duplicate files
// reached through overlapping paths are returned once.
func (a *LocalSeedFSAdapter) Get(paths []string) ([]Seed, error) {
	var seeds []Seed

	seen := make(map[string]struct{})

	for _, root := range paths {
		recursive := strings.HasSuffix(root, recursiveSuffix)
		if recursive {
			root = strings.TrimSuffix(root, recursiveSuffix)
			if root == "" {
				root = "."
			}
		}

		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("seed path error: %w", err)
		}

		err := a.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := seen[path]; ok {
				return nil
			}

			seen[path] = struct{}{}

			data, err := a.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read seed %s: %w", path, err)
			}

			sum := sha256.Sum256(data)
			seeds = append(seeds, Seed{Path: path, Data: data, Hash: fmt.Sprintf("%x", sum)})

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(seeds, func(i, j int) bool {
		return seeds[i].Path < seeds[j].Path
	})

	return seeds, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
