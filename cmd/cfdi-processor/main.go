package main

import (
	"fmt"
	"os"

	"github.com/fiscalmx/cfdi-processor/cmd/cfdi-processor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
