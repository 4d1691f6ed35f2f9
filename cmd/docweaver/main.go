package main

import (
	"os"

	"github.com/drblury/docweaver/cmd/docweaver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
