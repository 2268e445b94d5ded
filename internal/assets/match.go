// Package assets picks the release asset to install for the running
// platform and classifies how its bytes are wrapped.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matze/binge/internal/github"
)

// ErrNoMatch is returned when no release asset fits the running
// operating system and architecture. It is a per-repository condition,
// never fatal to a batch.
var ErrNoMatch = errors.New("no suitable release asset found")

// Compression identifies the outer compression wrapping of an asset.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXz
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionXz:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Container identifies the archive format found after decompression.
type Container int

const (
	ContainerNone Container = iota
	ContainerZip
	ContainerTar
)

func (c Container) String() string {
	switch c {
	case ContainerNone:
		return "none"
	case ContainerZip:
		return "zip"
	case ContainerTar:
		return "tar"
	default:
		return "unknown"
	}
}

// Layering describes how an asset's bytes are wrapped. The type spans
// the full compression and container product even though not every
// combination occurs in published releases; resolution is structural.
type Layering struct {
	Compression Compression
	Container   Container
}

func (l Layering) String() string {
	return fmt.Sprintf("%s+%s", l.Compression, l.Container)
}

// Match is the selected asset together with its classified layering.
type Match struct {
	Asset    github.Asset
	Layering Layering
}

// archPattern returns the regular expression fragment matching the
// architecture token in asset filenames. Publishers name the 64-bit x86
// family inconsistently, so amd64 accepts x86_64, amd64 and x64; this is
// a single special case, every other architecture matches literally.
func archPattern(goarch string) string {
	if goarch == "amd64" {
		return "(?:x86_64|amd64|x64)"
	}
	return regexp.QuoteMeta(goarch)
}

// Select returns the first asset whose filename names the given
// architecture and operating system as adjacent dash-delimited tokens,
// in either order. First match wins; asset lists are usually ordered by
// the variant the publisher lists first, so there is no scoring.
func Select(candidates []github.Asset, goarch, goos string) (Match, bool) {
	arch := archPattern(goarch)
	expr := regexp.MustCompile(fmt.Sprintf(`%s-[\w\d-]*%s|[\w\d-]*%s-%s`, arch, goos, goos, arch))

	for _, asset := range candidates {
		if !expr.MatchString(asset.Name) {
			continue
		}

		// editor extension packages match the platform pattern but are
		// not installable binaries
		if strings.EqualFold(filepath.Ext(asset.Name), ".vsix") {
			continue
		}

		return Match{Asset: asset, Layering: Classify(asset.Name)}, true
	}

	return Match{}, false
}

// Classify derives the layering from the filename's suffix chain: a
// compression extension may be followed by an inner .tar, .zip stands
// alone, and anything else is a bare single-file binary.
func Classify(filename string) Layering {
	ext := filepath.Ext(filename)

	compression := CompressionNone
	switch strings.ToLower(ext) {
	case ".gz":
		compression = CompressionGzip
	case ".xz":
		compression = CompressionXz
	case ".zst":
		compression = CompressionZstd
	case ".zip":
		return Layering{Compression: CompressionNone, Container: ContainerZip}
	default:
		return Layering{Compression: CompressionNone, Container: ContainerNone}
	}

	container := ContainerNone
	inner := strings.TrimSuffix(filename, ext)
	if strings.ToLower(filepath.Ext(inner)) == ".tar" {
		container = ContainerTar
	}

	return Layering{Compression: compression, Container: container}
}
