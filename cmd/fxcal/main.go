// Command fxcal scrapes a paginated economic calendar into a JSONL
// catalog of normalized event records.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
