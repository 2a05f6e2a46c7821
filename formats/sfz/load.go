// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/elmconv/zone"
)

// RateProber reports the sample rate of an audio file.
type RateProber interface {
	SampleRate(path string) (int, error)
}

// Load parses the SFZ file at path and resolves its samples relative to the
// file's folder. prober may be nil.
func Load(path string, prober RateProber, logger *slog.Logger) (string, []zone.Zone, error) {
	if logger == nil {
		logger = slog.Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := Parse(string(raw))

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	env := Env{BaseDir: filepath.Dir(abs), Logger: logger}
	if prober != nil {
		env.SampleRate = prober.SampleRate
	}

	logger.Info("loaded instrument", "file", path, "regions", len(doc.regions))

	zones, err := BuildZones(doc, env)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return name, zones, nil
}
