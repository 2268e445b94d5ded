package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed binaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(false)
		if err != nil {
			return err
		}

		switch listFormat {
		case "default":
			for _, binary := range s.manifest.Binaries {
				fmt.Printf("%s %s\n", binary.Repo, binary.Version)
			}
		case "install":
			// one line suitable for xargs binge install
			specs := make([]string, 0, len(s.manifest.Binaries))
			for _, binary := range s.manifest.Binaries {
				specs = append(specs, binary.Repo.Spec())
			}
			if len(specs) > 0 {
				fmt.Println(strings.Join(specs, " "))
			}
		default:
			return fmt.Errorf("unknown format %q, expected default or install", listFormat)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "default", "output format (default or install)")
	rootCmd.AddCommand(listCmd)
}
