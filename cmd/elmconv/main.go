// SPDX-License-Identifier: EPL-2.0

// Command elmconv converts EXS24 and SFZ instruments to Elektron
// multi-sample mappings.
package main

import (
	"fmt"
	"os"

	"github.com/ik5/elmconv/ffmpeg"
	"github.com/ik5/elmconv/internal/config"
)

var version = "dev"

func main() {
	cmd := newRootCmd(config.Load())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := ffmpeg.InstallHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "\n%s\n", hint)
		}
		os.Exit(1)
	}
}
