// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// searchPaths are checked when ffmpeg is not on PATH, which is common for
// applications started outside a login shell.
var searchPaths = map[string][]string{
	"darwin": {
		"/opt/homebrew/bin",
		"/usr/local/bin",
		"/usr/bin",
	},
	"windows": {
		`C:\Program Files\ffmpeg\bin`,
		`C:\Program Files (x86)\ffmpeg\bin`,
		`C:\ffmpeg\bin`,
		`C:\tools\ffmpeg\bin`,
	},
}

// Paths holds the resolved executables.
type Paths struct {
	FFmpeg  string
	FFprobe string
}

// Locate finds ffmpeg and ffprobe. A non-empty override names the ffmpeg
// executable directly; ffprobe is then expected next to it.
func Locate(override string) (Paths, error) {
	return locate(override, runtime.GOOS, exec.LookPath, isExecutable)
}

func locate(override, goos string, lookPath func(string) (string, error), isExec func(string) bool) (Paths, error) {
	sibling := func(ffmpeg string) Paths {
		return Paths{
			FFmpeg:  ffmpeg,
			FFprobe: filepath.Join(filepath.Dir(ffmpeg), exeName(goos, "ffprobe")),
		}
	}

	if override != "" {
		if !isExec(override) {
			return Paths{}, fmt.Errorf("%w: %s", ErrNotInstalled, override)
		}
		return sibling(override), nil
	}

	if p, err := lookPath("ffmpeg"); err == nil {
		paths := sibling(p)
		if probe, err := lookPath("ffprobe"); err == nil {
			paths.FFprobe = probe
		}
		return paths, nil
	}

	for _, dir := range searchPaths[goos] {
		p := filepath.Join(dir, exeName(goos, "ffmpeg"))
		if isExec(p) {
			return sibling(p), nil
		}
	}

	return Paths{}, ErrNotInstalled
}

func exeName(goos, name string) string {
	if goos == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return runtime.GOOS == "windows" || fi.Mode().Perm()&0o111 != 0
}
