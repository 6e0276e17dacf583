package main

import (
	"os"

	"skysight/cmd/skysight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
