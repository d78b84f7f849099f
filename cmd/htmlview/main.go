// Command htmlview renders markup documents to PNG through the htmlview
// controller and the reference block engine.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/htmlview/cmd/htmlview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
