// Package manager orchestrates the install and update pipelines across
// many repositories at once.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matze/binge/internal/assets"
	"github.com/matze/binge/internal/extract"
	"github.com/matze/binge/internal/github"
	"github.com/matze/binge/internal/manifest"
	"github.com/matze/binge/internal/repo"
)

// DefaultConcurrency bounds the number of repository pipelines running
// at once unless configured otherwise.
const DefaultConcurrency = 8

// Outcome describes how a single repository fared.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeInstalled
	OutcomeAlreadyInstalled
	OutcomeUpdated
	OutcomeUpToDate
	OutcomeUninstalled
	OutcomeNotInstalled
)

// Result is the per-repository outcome of an operation. Err is set only
// for OutcomeFailed; Previous carries the version replaced by an update.
type Result struct {
	Repo     repo.Repo
	Outcome  Outcome
	Binary   manifest.Binary
	Previous string
	Err      error
}

// Manager drives the release client, asset matcher and extraction
// pipeline. The only state shared between concurrent pipeline runs is
// the read-only client.
type Manager struct {
	client     *github.Client
	installDir string
	goos       string
	goarch     string
	limit      int
	progress   bool
}

// Option customizes the manager during construction.
type Option func(m *Manager)

// WithConcurrency bounds the number of repositories processed at once;
// zero or negative means unbounded.
func WithConcurrency(limit int) Option {
	return func(m *Manager) {
		m.limit = limit
	}
}

// WithPlatform overrides the platform assets are matched for.
func WithPlatform(goos, goarch string) Option {
	return func(m *Manager) {
		m.goos = goos
		m.goarch = goarch
	}
}

// WithProgress shows a progress bar while downloading assets. Only
// useful when a single repository is processed; concurrent bars would
// interleave on the terminal.
func WithProgress(enabled bool) Option {
	return func(m *Manager) {
		m.progress = enabled
	}
}

// New builds a manager installing into installDir.
func New(client *github.Client, installDir string, opts ...Option) *Manager {
	m := &Manager{
		client:     client,
		installDir: installDir,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
		limit:      DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) group() *errgroup.Group {
	var group errgroup.Group
	if m.limit > 0 {
		group.SetLimit(m.limit)
	}
	return &group
}

// Install fetches and installs the latest release of every repository
// not yet present in the manifest. Repositories already recorded are
// skipped. Pipelines run concurrently and fail independently; the
// returned snapshot contains an entry for every success, and failed
// repositories remain uninstalled.
func (m *Manager) Install(ctx context.Context, repos []repo.Repo, man manifest.Manifest) (manifest.Manifest, []Result) {
	var results []Result
	var pending []repo.Repo

	for _, r := range repos {
		if man.Exists(r) {
			results = append(results, Result{Repo: r, Outcome: OutcomeAlreadyInstalled})
			continue
		}
		pending = append(pending, r)
	}

	outcomes := make([]Result, len(pending))
	group := m.group()

	for i, r := range pending {
		i, r := i, r
		group.Go(func() error {
			outcomes[i] = m.installOne(ctx, r)
			return nil
		})
	}

	// tasks record their outcome instead of returning errors, so the
	// wait can only observe nil
	_ = group.Wait()

	next := man
	for _, result := range outcomes {
		if result.Err == nil {
			next = next.Upsert(result.Binary)
		}
	}

	return next, append(results, outcomes...)
}

func (m *Manager) installOne(ctx context.Context, r repo.Repo) Result {
	log.Debug("task", "repo", r.String(), "stage", stageFetching)

	release, err := m.client.LatestRelease(ctx, r)
	if err != nil {
		log.Debug("task", "repo", r.String(), "stage", stageFailed)
		return Result{Repo: r, Outcome: OutcomeFailed, Err: err}
	}

	path, err := m.fetchAndExtract(ctx, r, release, m.installDir)
	if err != nil {
		return Result{Repo: r, Outcome: OutcomeFailed, Err: err}
	}

	if r.Rename != "" {
		renamed := filepath.Join(filepath.Dir(path), r.Rename)
		if err := os.Rename(path, renamed); err != nil {
			return Result{Repo: r, Outcome: OutcomeFailed, Err: fmt.Errorf("renaming %s: %w", r, err)}
		}
		path = renamed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Repo: r, Outcome: OutcomeFailed, Err: err}
	}

	log.Debug("task", "repo", r.String(), "stage", stageDone)

	return Result{
		Repo:    r,
		Outcome: OutcomeInstalled,
		Binary:  manifest.Binary{Repo: r, Path: abs, Version: release.TagName},
	}
}

// Update checks every installed binary against its latest release tag.
// Tags are compared as opaque strings; anything different from the
// recorded version triggers a reinstall into the binary's directory. A
// failed update keeps the previous entry and file untouched.
func (m *Manager) Update(ctx context.Context, man manifest.Manifest) (manifest.Manifest, []Result) {
	results := make([]Result, len(man.Binaries))
	group := m.group()

	for i, binary := range man.Binaries {
		i, binary := i, binary
		group.Go(func() error {
			results[i] = m.updateOne(ctx, binary)
			return nil
		})
	}

	_ = group.Wait()

	next := man
	for _, result := range results {
		if result.Outcome == OutcomeUpdated {
			next = next.Upsert(result.Binary)
		}
	}

	return next, results
}

func (m *Manager) updateOne(ctx context.Context, binary manifest.Binary) Result {
	r := binary.Repo
	log.Debug("task", "repo", r.String(), "stage", stageFetching)

	release, err := m.client.LatestRelease(ctx, r)
	if err != nil {
		return Result{Repo: r, Outcome: OutcomeFailed, Binary: binary, Err: err}
	}

	if release.TagName == binary.Version {
		log.Debug("task", "repo", r.String(), "stage", stageDone, "unchanged", true)
		return Result{Repo: r, Outcome: OutcomeUpToDate, Binary: binary}
	}

	path, err := m.fetchAndExtract(ctx, r, release, filepath.Dir(binary.Path))
	if err != nil {
		return Result{Repo: r, Outcome: OutcomeFailed, Binary: binary, Err: err}
	}

	// the manifest path stays authoritative, whatever name the new
	// asset's executable carries
	if path != binary.Path {
		if err := os.Rename(path, binary.Path); err != nil {
			return Result{Repo: r, Outcome: OutcomeFailed, Binary: binary, Err: fmt.Errorf("replacing %s: %w", binary.Path, err)}
		}
	}

	log.Debug("task", "repo", r.String(), "stage", stageDone)

	return Result{
		Repo:     r,
		Outcome:  OutcomeUpdated,
		Binary:   manifest.Binary{Repo: r, Path: binary.Path, Version: release.TagName},
		Previous: binary.Version,
	}
}

// fetchAndExtract runs the tail of the pipeline for an already-fetched
// release: match an asset, download it to a scratch file and extract the
// executable into destDir.
func (m *Manager) fetchAndExtract(ctx context.Context, r repo.Repo, release *github.Release, destDir string) (string, error) {
	log.Debug("task", "repo", r.String(), "stage", stageMatching)

	match, ok := assets.Select(release.Assets, m.goarch, m.goos)
	if !ok {
		log.Debug("task", "repo", r.String(), "stage", stageFailed)
		return "", fmt.Errorf("%w for %s on %s/%s", assets.ErrNoMatch, r, m.goos, m.goarch)
	}

	log.Debug("task", "repo", r.String(), "stage", stageDownloading, "asset", match.Asset.Name, "layering", match.Layering)

	scratch, err := m.download(ctx, match.Asset)
	if err != nil {
		log.Debug("task", "repo", r.String(), "stage", stageFailed)
		return "", err
	}
	defer os.RemoveAll(filepath.Dir(scratch))

	log.Debug("task", "repo", r.String(), "stage", stageExtracting)

	file, err := os.Open(scratch)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", scratch, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("inspecting %s: %w", scratch, err)
	}

	path, err := extract.Extract(file, info.Size(), match.Layering, destDir, match.Asset.Name)
	if err != nil {
		log.Debug("task", "repo", r.String(), "stage", stageFailed)
		return "", fmt.Errorf("extracting %s: %w", match.Asset.Name, err)
	}

	return path, nil
}

// download fetches the asset into a fresh scratch directory and returns
// the file path. The caller removes the directory.
func (m *Manager) download(ctx context.Context, asset github.Asset) (string, error) {
	body, size, err := m.client.Download(ctx, asset.DownloadURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	dir, err := os.MkdirTemp("", "binge-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}

	path := filepath.Join(dir, asset.Name)
	out, err := os.Create(path)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	src, finish := m.progressReader(body, size)
	defer finish()

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.RemoveAll(dir)
		return "", fmt.Errorf("downloading %s: %w", asset.Name, err)
	}

	if err := out.Close(); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}

// Uninstall deletes the files of the given repositories and drops their
// manifest entries. Repositories that are not installed are reported,
// not fatal.
func (m *Manager) Uninstall(repos []repo.Repo, man manifest.Manifest) (manifest.Manifest, []Result) {
	next := man
	results := make([]Result, 0, len(repos))

	for _, r := range repos {
		binary, ok := next.Find(r)
		if !ok {
			results = append(results, Result{Repo: r, Outcome: OutcomeNotInstalled})
			continue
		}

		if err := os.Remove(binary.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			results = append(results, Result{Repo: r, Outcome: OutcomeFailed, Binary: binary, Err: fmt.Errorf("removing %s: %w", binary.Path, err)})
			continue
		}

		next = next.Remove(r)
		results = append(results, Result{Repo: r, Outcome: OutcomeUninstalled, Binary: binary})
	}

	return next, results
}

// Rename applies the alias carried by r to an already-installed binary,
// renaming the file and updating its manifest entry.
func (m *Manager) Rename(r repo.Repo, man manifest.Manifest) (manifest.Manifest, error) {
	if r.Rename == "" {
		return man, nil
	}

	binary, ok := man.Find(r)
	if !ok {
		return man, fmt.Errorf("%s is not installed", r)
	}

	target := filepath.Join(filepath.Dir(binary.Path), r.Rename)
	if target == binary.Path {
		return man, nil
	}

	if err := os.Rename(binary.Path, target); err != nil {
		return man, fmt.Errorf("renaming %s: %w", r, err)
	}

	binary.Path = target
	binary.Repo.Rename = r.Rename

	return man.Upsert(binary), nil
}
