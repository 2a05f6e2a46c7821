// SPDX-License-Identifier: EPL-2.0

package elmconv

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/formats/exs"
	"github.com/ik5/elmconv/formats/sfz"
	"github.com/ik5/elmconv/zone"
)

// Supported instrument extensions.
const (
	ExtEXS = ".exs"
	ExtSFZ = ".sfz"
)

// LoadInstrument reads the instrument at path, choosing the reader by
// extension. SFZ samples are probed for their rate through inspector.
func LoadInstrument(path string, inspector Inspector, logger *slog.Logger) (string, []zone.Zone, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtEXS:
		return exs.Load(path, logger)
	case ExtSFZ:
		return sfz.Load(path, inspector, logger)
	default:
		return "", nil, errs.Validationf("unsupported file format: %q, supported: %s, %s", ext, ExtEXS, ExtSFZ)
	}
}
