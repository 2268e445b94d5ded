package cli

import (
	"fmt"
	"os"
	"time"
)

var spinnerFrames = []string{"⠖", "⠲", "⠴", "⠦"}

// spin shows an animated spinner with message on stderr until the
// returned stop function is called. Off a terminal the message is
// printed once instead.
func spin(message string) func() {
	if !interactive() {
		fmt.Fprintln(os.Stderr, message)
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			fmt.Fprintf(os.Stderr, "\x1b[2K\r%s %s", spinnerFrames[frame%len(spinnerFrames)], message)
			select {
			case <-done:
				fmt.Fprint(os.Stderr, "\x1b[2K\r")
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
