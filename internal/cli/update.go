package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update all installed binaries to their latest releases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(false)
		if err != nil {
			return err
		}

		if len(s.manifest.Binaries) == 0 {
			fmt.Println("nothing installed")
			return nil
		}

		start := time.Now()
		stop := spin(fmt.Sprintf("checking %d binaries", len(s.manifest.Binaries)))

		next, results := s.manager.Update(cmd.Context(), s.manifest)
		stop()

		failed := report(results)

		if err := s.save(next); err != nil {
			return err
		}

		fmt.Printf("update took %s\n", time.Since(start).Round(time.Millisecond))

		if failed > 0 {
			return fmt.Errorf("failed to update %d of %d binaries", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
