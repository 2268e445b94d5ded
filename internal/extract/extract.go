// Package extract writes the single executable contained in a release
// asset out to an installation directory.
package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/matze/binge/internal/assets"
)

var (
	// ErrNoExecutable is returned when no archive entry qualifies as the
	// executable to install.
	ErrNoExecutable = errors.New("no executable found in archive")

	// ErrUnsupportedLayering marks a recognized compression and
	// container combination that cannot be decoded. Real-world release
	// naming does not produce these, but guessing would mis-extract.
	ErrUnsupportedLayering = errors.New("unsupported compression and container combination")
)

// Extract decodes the layered wrapping of an asset and writes the one
// executable it contains into destDir, returning the written path.
//
// Compression and container are decoded as two independent stream
// transforms. Without a container the decompressed stream itself is the
// executable and ends up at destDir/fallback; tar and zip containers are
// walked in order and the first regular entry with the owner-execute bit
// set wins, keeping its own filename. Remaining entries are never
// inspected: release assets contain exactly one relevant executable.
func Extract(src io.ReaderAt, size int64, layering assets.Layering, destDir, fallback string) (string, error) {
	if layering.Container == assets.ContainerZip {
		// the zip directory needs random access, which a decompressing
		// reader cannot provide
		if layering.Compression != assets.CompressionNone {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedLayering, layering)
		}
		return unzip(src, size, destDir)
	}

	stream, closer, err := decompress(io.NewSectionReader(src, 0, size), layering.Compression)
	if err != nil {
		return "", err
	}
	defer closer()

	switch layering.Container {
	case assets.ContainerNone:
		return single(stream, destDir, fallback)
	case assets.ContainerTar:
		return untar(stream, destDir)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLayering, layering)
	}
}

// decompress wraps the raw stream in a decompressing reader.
func decompress(r io.Reader, compression assets.Compression) (io.Reader, func(), error) {
	switch compression {
	case assets.CompressionNone:
		return r, func() {}, nil
	case assets.CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("reading gzip stream: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case assets.CompressionXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("reading xz stream: %w", err)
		}
		return xr, func() {}, nil
	case assets.CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("reading zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown compression", ErrUnsupportedLayering)
	}
}

// untar writes out the first regular tar entry with the owner-execute
// bit set, under its base filename and with the entry's recorded mode.
func untar(r io.Reader, destDir string) (string, error) {
	reader := tar.NewReader(r)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return "", ErrNoExecutable
		}
		if err != nil {
			return "", fmt.Errorf("reading tar entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg || header.Mode&0o100 == 0 {
			continue
		}

		target := filepath.Join(destDir, filepath.Base(header.Name))
		if err := write(target, reader, os.FileMode(header.Mode).Perm()); err != nil {
			return "", err
		}

		return target, nil
	}
}

// unzip writes out the first zip entry whose Unix permission bits mark a
// regular executable, keeping the entry's own relative path.
func unzip(src io.ReaderAt, size int64, destDir string) (string, error) {
	reader, err := zip.NewReader(src, size)
	if err != nil {
		return "", fmt.Errorf("reading zip directory: %w", err)
	}

	for _, file := range reader.File {
		mode := file.Mode()
		if file.FileInfo().IsDir() || mode&0o100 == 0 {
			continue
		}

		name := filepath.Clean(filepath.FromSlash(file.Name))
		target := filepath.Join(destDir, name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return "", fmt.Errorf("illegal entry path: %s", file.Name)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}

		contents, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening entry %s: %w", file.Name, err)
		}

		if err := write(target, contents, mode.Perm()); err != nil {
			contents.Close()
			return "", err
		}
		contents.Close()

		return target, nil
	}

	return "", ErrNoExecutable
}

// single writes the stream verbatim; the asset is the executable.
func single(r io.Reader, destDir, fallback string) (string, error) {
	target := filepath.Join(destDir, fallback)
	if err := write(target, r, 0o755); err != nil {
		return "", err
	}
	return target, nil
}

// write copies the stream to path and sets the mode explicitly, since a
// plain byte copy does not carry over the executable bit.
func write(path string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}

	return nil
}
