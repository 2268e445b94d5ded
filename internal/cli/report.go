package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/matze/binge/internal/manager"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// report prints one line per result and returns how many of them
// failed.
func report(results []manager.Result) int {
	failed := 0

	for _, result := range results {
		switch result.Outcome {
		case manager.OutcomeInstalled:
			fmt.Printf("%s %s %s\n", okColor.Sprint("Installed"), result.Repo, result.Binary.Version)
		case manager.OutcomeAlreadyInstalled:
			fmt.Printf("%s is already installed\n", result.Repo)
		case manager.OutcomeUpdated:
			fmt.Printf("%s %s %s -> %s\n", okColor.Sprint("Updated"), result.Repo, result.Previous, result.Binary.Version)
		case manager.OutcomeUpToDate:
			// nothing to say
		case manager.OutcomeUninstalled:
			fmt.Printf("%s %s\n", okColor.Sprint("Uninstalled"), result.Repo)
		case manager.OutcomeNotInstalled:
			fmt.Printf("%s is %s\n", result.Repo, warnColor.Sprint("not installed"))
		case manager.OutcomeFailed:
			failed++
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", errColor.Sprint("Error:"), result.Repo, result.Err)
		}
	}

	return failed
}
