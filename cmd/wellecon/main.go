package main

import (
	"os"

	"github.com/petroval/wellecon/cmd/wellecon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
