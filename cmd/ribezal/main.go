package main

import (
	"os"

	"github.com/pecora0/ribezal/cmd/ribezal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
