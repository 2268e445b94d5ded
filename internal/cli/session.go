package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/matze/binge/internal/config"
	"github.com/matze/binge/internal/github"
	"github.com/matze/binge/internal/manager"
	"github.com/matze/binge/internal/manifest"
)

// session bundles everything a command needs: the loaded manifest, its
// on-disk location, and a ready-to-use manager.
type session struct {
	manifest     manifest.Manifest
	manifestPath string
	manager      *manager.Manager
}

func newSession(progress bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	installDir, err := cfg.InstallDir()
	if err != nil {
		return nil, err
	}

	manifestPath, err := config.ManifestPath()
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}

	man, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))

	return &session{
		manifest:     man,
		manifestPath: manifestPath,
		manager: manager.New(
			client,
			installDir,
			manager.WithConcurrency(cfg.Concurrency),
			manager.WithProgress(progress && interactive()),
		),
	}, nil
}

func (s *session) save(man manifest.Manifest) error {
	if err := man.Save(s.manifestPath); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}
