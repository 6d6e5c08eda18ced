package main

import (
	"os"

	"github.com/apanov/nodemap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
