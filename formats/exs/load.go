// SPDX-License-Identifier: EPL-2.0

package exs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/elmconv/locate"
	"github.com/ik5/elmconv/zone"
)

// Load reads the instrument at path and resolves its samples on disk. The
// instrument name is the file's base name without extension.
func Load(path string, logger *slog.Logger) (string, []zone.Zone, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fi, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.Size() > MaxFileSize {
		return "", nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}

	inst, err := Parse(data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	dir := filepath.Dir(abs)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	logger.Info("loaded instrument", "file", path, "zones", len(inst.Zones), "groups", len(inst.Groups), "samples", len(inst.Samples))
	for i, g := range inst.Groups {
		if g.IsRoundRobin() {
			logger.Debug("round-robin group", "group", i, "position", g.Sequence)
		}
	}

	resolve := func(s *Sample) (string, bool) {
		p, ok := FindSample(dir, name, s)
		if ok {
			logger.Debug("sample found", "sample", s.Name, "path", p)
		} else {
			logger.Warn("sample not found", "sample", s.Name, "recorded", s.FilePath)
		}
		return p, ok
	}

	zones, err := inst.BuildZones(resolve)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return name, zones, nil
}

// FindSample locates the audio file of s for an instrument stored in dir
// under the given base name.
func FindSample(dir, name string, s *Sample) (string, bool) {
	if p, ok := locate.ResolveRecorded(dir, s.FilePath, s.FileName); ok {
		return p, true
	}

	dirs := []string{
		dir,
		filepath.Join(dir, name),
		filepath.Join(dir, "..", name),
		filepath.Join(dir, "..", "Samples", name),
	}
	for _, d := range locate.AncestorDirs(dir, s.FilePath) {
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}

	fileName := locate.NormalizeSeparators(s.FileName)
	return locate.FindSampleFile(fileName, dirs)
}
