// Command oneshopctl inspects a catalog file offline: validation,
// flattening and search run through the same code as the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
