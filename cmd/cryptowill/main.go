package main

import (
	"os"

	"github.com/canopy-network/canopy/lib/vss/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
