// Command txgraph renders, exports and serves the incoming transactions chart.
package main

import (
	"os"

	"txgraph/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("Command failed", err)
		os.Exit(1)
	}
}
