package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matze/binge/internal/repo"
)

var installCmd = &cobra.Command{
	Use:   "install <owner/repo[:name]>...",
	Short: "Install the latest release of one or more repositories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos := parseRepoArgs(args)
		if len(repos) == 0 {
			return errors.New("no valid repositories given")
		}

		// a single install shows a download bar instead of the spinner
		s, err := newSession(len(repos) == 1)
		if err != nil {
			return err
		}

		start := time.Now()

		stop := func() {}
		if len(repos) > 1 {
			stop = spin(fmt.Sprintf("installing %d binaries", len(repos)))
		}

		next, results := s.manager.Install(cmd.Context(), repos, s.manifest)
		stop()

		failed := report(results)

		if err := s.save(next); err != nil {
			return err
		}

		fmt.Printf("install took %s\n", time.Since(start).Round(time.Millisecond))

		if failed > 0 {
			return fmt.Errorf("failed to install %d of %d repositories", failed, len(repos))
		}
		return nil
	},
}

// parseRepoArgs reports malformed specs on stderr and keeps going with
// the valid ones.
func parseRepoArgs(args []string) []repo.Repo {
	repos := make([]repo.Repo, 0, len(args))

	for _, arg := range args {
		parsed, err := repo.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errColor.Sprint("Error:"), err)
			continue
		}
		repos = append(repos, parsed)
	}

	return repos
}

func init() {
	rootCmd.AddCommand(installCmd)
}
