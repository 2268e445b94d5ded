package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matze/binge/internal/repo"
)

var renameCmd = &cobra.Command{
	Use:   "rename <owner/repo:name>",
	Short: "Rename an installed binary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := repo.Parse(args[0])
		if err != nil {
			return err
		}
		if parsed.Rename == "" {
			return errors.New("no new name given, use owner/repo:name")
		}

		s, err := newSession(false)
		if err != nil {
			return err
		}

		next, err := s.manager.Rename(parsed, s.manifest)
		if err != nil {
			return err
		}

		if err := s.save(next); err != nil {
			return err
		}

		fmt.Printf("%s %s to %s\n", okColor.Sprint("Renamed"), parsed, parsed.Rename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
