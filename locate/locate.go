// SPDX-License-Identifier: EPL-2.0

// Package locate finds sample files that instruments refer to by name only
// or by a path recorded on another machine.
package locate

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// notePattern matches a note token such as "-C#3-" inside a file name.
var notePattern = regexp.MustCompile(`(?i)-([A-G][#b]?\d+)-`)

// Hint depth and ancestor climb used by AncestorDirs.
const (
	maxHintDepth   = 4
	maxAncestorHop = 6
)

// NormalizeSeparators turns Windows separators into forward slashes.
func NormalizeSeparators(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// FindSampleFile looks for name in each directory in order. Within one
// directory it tries an exact match, then a case-insensitive match, then a
// file carrying the same note token.
func FindSampleFile(name string, dirs []string) (string, bool) {
	wantNote := noteToken(name)

	for _, dir := range dirs {
		if !isDir(dir) {
			continue
		}

		exact := filepath.Join(dir, name)
		if isFile(exact) {
			return exact, true
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, e := range entries {
			if strings.EqualFold(e.Name(), name) {
				return filepath.Join(dir, e.Name()), true
			}
		}

		if wantNote == "" {
			continue
		}
		for _, e := range entries {
			if noteToken(e.Name()) == wantNote {
				return filepath.Join(dir, e.Name()), true
			}
		}
	}

	return "", false
}

func noteToken(name string) string {
	m := notePattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// ResolveRecorded tries the path an instrument recorded for a sample. The
// recorded path is either the file itself or its folder; relative paths are
// taken from baseDir.
func ResolveRecorded(baseDir, recorded, fileName string) (string, bool) {
	if recorded == "" {
		return "", false
	}

	p := filepath.FromSlash(NormalizeSeparators(recorded))
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	p = filepath.Clean(p)

	if isFile(p) {
		return p, true
	}
	if isDir(p) && fileName != "" {
		full := filepath.Join(p, filepath.FromSlash(NormalizeSeparators(fileName)))
		if isFile(full) {
			return full, true
		}
	}
	return "", false
}

// AncestorDirs turns the trailing components of a recorded path into
// candidate folders under baseDir and its ancestors. Libraries often keep
// instruments and audio in sibling trees, so "Lib/WAV/Piano" recorded on
// one machine is found as "<somewhere>/WAV/Piano" on another.
func AncestorDirs(baseDir, recorded string) []string {
	var parts []string
	for _, p := range strings.Split(NormalizeSeparators(recorded), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	var dirs []string
	for depth := 1; depth <= min(maxHintDepth, len(parts)-1); depth++ {
		sub := filepath.Join(parts[len(parts)-depth:]...)

		current := baseDir
		for range maxAncestorHop {
			candidate := filepath.Clean(filepath.Join(current, sub))
			if isDir(candidate) && !slices.Contains(dirs, candidate) {
				dirs = append(dirs, candidate)
			}

			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	return dirs
}
