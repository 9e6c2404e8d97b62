// hazsearch answers hazardous-materials regulatory questions by ranking
// passages from an ingested corpus of regulatory and product documents.
package main

import (
	"fmt"
	"os"

	"github.com/hazmatiq/hazsearch/cmd/hazsearch/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
