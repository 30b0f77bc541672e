package main

import (
	"os"

	"github.com/lmercat/socsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
