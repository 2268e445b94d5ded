package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <owner/repo>...",
	Aliases: []string{"remove"},
	Short:   "Remove installed binaries and their manifest entries",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos := parseRepoArgs(args)
		if len(repos) == 0 {
			return errors.New("no valid repositories given")
		}

		s, err := newSession(false)
		if err != nil {
			return err
		}

		next, results := s.manager.Uninstall(repos, s.manifest)

		failed := report(results)

		if err := s.save(next); err != nil {
			return err
		}

		if failed > 0 {
			return fmt.Errorf("failed to uninstall %d of %d repositories", failed, len(repos))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
