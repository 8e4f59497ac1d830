package main

import (
	"os"

	"github.com/akhenakh/quantity/cmd/qcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
