package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matze/binge/internal/github"
)

func asset(name string) github.Asset {
	return github.Asset{Name: name, DownloadURL: "https://example.com/" + name}
}

func TestSelect_PlatformTokens(t *testing.T) {
	tests := []struct {
		name    string
		asset   string
		goarch  string
		goos    string
		matches bool
	}{
		{
			name:    "arch then os with tokens between",
			asset:   "bar-x86_64-unknown-linux-gnu.tar.gz",
			goarch:  "amd64",
			goos:    "linux",
			matches: true,
		},
		{
			name:    "os then arch",
			asset:   "bar-linux-amd64.tar.gz",
			goarch:  "amd64",
			goos:    "linux",
			matches: true,
		},
		{
			name:    "x64 alias",
			asset:   "tailwindcss-linux-x64",
			goarch:  "amd64",
			goos:    "linux",
			matches: true,
		},
		{
			name:    "amd64 alias in rust triple position",
			asset:   "bar-amd64-unknown-linux-gnu.tar.gz",
			goarch:  "amd64",
			goos:    "linux",
			matches: true,
		},
		{
			name:    "wrong architecture",
			asset:   "bar-x86_64-unknown-linux-gnu.tar.gz",
			goarch:  "arm64",
			goos:    "linux",
			matches: false,
		},
		{
			name:    "no alias treatment outside the x86-64 family",
			asset:   "bar-aarch64-linux.tar.gz",
			goarch:  "arm64",
			goos:    "linux",
			matches: false,
		},
		{
			name:    "literal match for other architectures",
			asset:   "bar-arm64-linux.tar.gz",
			goarch:  "arm64",
			goos:    "linux",
			matches: true,
		},
		{
			name:    "missing os",
			asset:   "bar-x86_64.tar.gz",
			goarch:  "amd64",
			goos:    "linux",
			matches: false,
		},
		{
			name:    "os and arch separated by unrelated token order",
			asset:   "bar-linux-gnu-foo.tar.gz",
			goarch:  "amd64",
			goos:    "linux",
			matches: false,
		},
		{
			name:    "darwin",
			asset:   "bar-x86_64-apple-darwin.tar.gz",
			goarch:  "amd64",
			goos:    "darwin",
			matches: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Select([]github.Asset{asset(tt.asset)}, tt.goarch, tt.goos)
			assert.Equal(t, tt.matches, ok)
		})
	}
}

func TestSelect_FirstMatchWins(t *testing.T) {
	candidates := []github.Asset{
		asset("bar-windows-amd64.zip"),
		asset("bar-linux-amd64.tar.gz"),
		asset("bar-linux-x86_64.tar.zst"),
	}

	match, ok := Select(candidates, "amd64", "linux")
	require.True(t, ok)
	assert.Equal(t, "bar-linux-amd64.tar.gz", match.Asset.Name)
}

func TestSelect_RejectsEditorExtensions(t *testing.T) {
	candidates := []github.Asset{
		asset("bar-linux-x64.vsix"),
		asset("bar-linux-x64.tar.gz"),
	}

	match, ok := Select(candidates, "amd64", "linux")
	require.True(t, ok)
	assert.Equal(t, "bar-linux-x64.tar.gz", match.Asset.Name)

	_, ok = Select(candidates[:1], "amd64", "linux")
	assert.False(t, ok)
}

func TestSelect_NoCandidates(t *testing.T) {
	_, ok := Select(nil, "amd64", "linux")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		expected Layering
	}{
		{"bar.tar.gz", Layering{CompressionGzip, ContainerTar}},
		{"bar.tar.xz", Layering{CompressionXz, ContainerTar}},
		{"bar.tar.zst", Layering{CompressionZstd, ContainerTar}},
		{"bar.zip", Layering{CompressionNone, ContainerZip}},
		{"bar.gz", Layering{CompressionGzip, ContainerNone}},
		{"bar.xz", Layering{CompressionXz, ContainerNone}},
		{"bar.zst", Layering{CompressionZstd, ContainerNone}},
		{"bar", Layering{CompressionNone, ContainerNone}},
		{"bar.TAR.GZ", Layering{CompressionGzip, ContainerTar}},
		{"bar.exe", Layering{CompressionNone, ContainerNone}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.filename))
		})
	}
}

func TestLayeringString(t *testing.T) {
	assert.Equal(t, "gzip+tar", Layering{CompressionGzip, ContainerTar}.String())
	assert.Equal(t, "none+none", Layering{}.String())
}
