// SPDX-License-Identifier: EPL-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/elmconv/errs"
)

// expandInputs resolves glob patterns the shell left alone and returns the
// matching files sorted. Unmatched arguments are logged and skipped; an
// argument equal to outDir is ignored.
func expandInputs(args []string, outDir string, logger *slog.Logger) ([]string, error) {
	var files []string
	for _, arg := range args {
		if arg == outDir {
			continue
		}

		if matches, err := filepath.Glob(arg); err == nil && len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if fi, err := os.Stat(arg); err == nil && fi.Mode().IsRegular() {
			files = append(files, arg)
			continue
		}

		if strings.ContainsAny(arg, "*?[]") {
			logger.Warn("no files matched pattern", slog.String("pattern", arg))
		} else {
			logger.Warn("file not found", slog.String("file", arg))
		}
	}

	if len(files) == 0 {
		return nil, errs.Validationf("no input files found")
	}
	slices.Sort(files)
	return files, nil
}

// checkOutputDir rejects an output path that names an existing file.
func checkOutputDir(dir string) error {
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		return errs.Validationf("OUTPUT_DIR is a file, not a directory: %s", dir)
	}
	return nil
}
