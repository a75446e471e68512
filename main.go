package main

import (
	"os"

	"github.com/longkt99/scribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
