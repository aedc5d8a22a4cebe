package main

import (
	"os"

	"github.com/hopla/hopla-ssl/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
