// Package manifest persists the mapping from repository identity to the
// installed binary.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/matze/binge/internal/repo"
)

// FormatVersion is the manifest format written by this version of binge.
const FormatVersion = 1

// Binary records one installed executable.
type Binary struct {
	Repo    repo.Repo `json:"repo"`
	Path    string    `json:"path"`
	Version string    `json:"version"`
}

// Manifest is the full installation state. Its binaries are kept sorted
// by repository identity and pairwise distinct; all mutators return a
// new snapshot rather than modifying the receiver, so a half-finished
// run can never corrupt previously persisted state.
type Manifest struct {
	FormatVersion int      `json:"format_version"`
	Binaries      []Binary `json:"binaries"`
}

// New returns an empty manifest at the current format version.
func New() Manifest {
	return Manifest{FormatVersion: FormatVersion}
}

// Load reads the manifest from path. A missing file yields an empty
// manifest; an unreadable or unparseable one is an error the caller
// treats as fatal.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("decoding manifest %s: %w", path, err)
	}

	if manifest.FormatVersion > FormatVersion {
		return Manifest{}, fmt.Errorf("manifest %s has format version %d, newer than the supported %d", path, manifest.FormatVersion, FormatVersion)
	}

	return manifest.sorted(), nil
}

// Save writes the manifest to path by writing a temporary file next to
// it and renaming it into place.
func (m Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("creating temporary manifest: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing manifest: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing manifest: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing manifest: %w", err)
	}

	return nil
}

// Exists reports whether a binary is recorded for the given identity.
func (m Manifest) Exists(r repo.Repo) bool {
	_, ok := m.Find(r)
	return ok
}

// Find returns the recorded binary for the given identity.
func (m Manifest) Find(r repo.Repo) (Binary, bool) {
	for _, binary := range m.Binaries {
		if binary.Repo.Equal(r) {
			return binary, true
		}
	}
	return Binary{}, false
}

// Upsert returns a snapshot with the binary inserted, or replacing the
// entry with the same identity.
func (m Manifest) Upsert(binary Binary) Manifest {
	next := m.clone()

	for i, existing := range next.Binaries {
		if existing.Repo.Equal(binary.Repo) {
			next.Binaries[i] = binary
			return next.sorted()
		}
	}

	next.Binaries = append(next.Binaries, binary)
	return next.sorted()
}

// Remove returns a snapshot without the entry for the given identity.
func (m Manifest) Remove(r repo.Repo) Manifest {
	next := m.clone()
	next.Binaries = slices.DeleteFunc(next.Binaries, func(binary Binary) bool {
		return binary.Repo.Equal(r)
	})
	return next
}

func (m Manifest) clone() Manifest {
	return Manifest{
		FormatVersion: m.FormatVersion,
		Binaries:      slices.Clone(m.Binaries),
	}
}

func (m Manifest) sorted() Manifest {
	slices.SortFunc(m.Binaries, func(a, b Binary) int {
		return a.Repo.Compare(b.Repo)
	})
	return m
}
