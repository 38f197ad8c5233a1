// Command catalogctl inspects how the gateway would group a category listing.
package main

import (
	"os"

	"buildmart-gateway/internal/logger"
)

func main() {
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
