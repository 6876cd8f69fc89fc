// CrateFill - 3D load planner
//
// Packs rectangular boxes and voxel-shaped parts into a single container,
// lowest level first, and exports load plans, labels and manifests.
//
// Build:
//   go build -o cratefill ./cmd/cratefill
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o cratefill.exe ./cmd/cratefill
//   GOOS=darwin  GOARCH=arm64 go build -o cratefill-darwin ./cmd/cratefill

package main

import (
	"fmt"
	"os"

	"github.com/piwi3910/CrateFill/internal/cli"
	"github.com/piwi3910/CrateFill/internal/logging"
)

func main() {
	logger, err := logging.New("info", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
