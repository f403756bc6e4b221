package main

import (
	"os"

	"github.com/Skotchmaster/loja_grid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
