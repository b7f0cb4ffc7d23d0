// Command spark serves the demo site and static files over HTTP/1.1.
package main

import (
	"fmt"
	"os"
)

// build metadata, set via ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
