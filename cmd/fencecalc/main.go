// FenceCalc - Fence and Gate Materials Estimator
//
// A command line tool that estimates posts, panels, rails and concrete
// for fence runs and produces bills of materials for fence and gate styles.
//
// Build:
//   go build -o fencecalc ./cmd/fencecalc
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o fencecalc.exe ./cmd/fencecalc
//   GOOS=darwin  GOARCH=arm64 go build -o fencecalc-darwin ./cmd/fencecalc

package main

import (
	"os"

	"github.com/piwi3910/fencecalc/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
