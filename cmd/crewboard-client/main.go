// crewboard-client drives a crewboard page from the terminal: it keeps the
// theme and simulated role view in a local preference file, syncs them to the
// server and shows what the board looks like for the chosen view.
package main

import (
	"os"

	"github.com/target/crewboard/cmd/crewboard-client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must exit non-zero on failure.
	}
}
