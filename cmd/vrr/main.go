// Command vrr browses image directories with adaptive prefetch.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vrr:", err)
		os.Exit(1)
	}
}
