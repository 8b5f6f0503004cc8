// Package main provides the epiload CLI for checking and converting scenario files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	cmd := newRootCmd(afero.NewOsFs())
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
