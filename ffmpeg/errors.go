// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/ik5/elmconv/errs"
)

var (
	// ErrNotInstalled is returned when no ffmpeg executable can be found or
	// started.
	ErrNotInstalled = fmt.Errorf("%w: ffmpeg is not installed", errs.ErrToolNotFound)

	// ErrNoSoxr is returned when ffmpeg was built without libsoxr.
	ErrNoSoxr = fmt.Errorf("%w: ffmpeg is missing soxr resampler support", errs.ErrToolNotFound)

	ErrProbe     = fmt.Errorf("%w: ffprobe failed", errs.ErrConversion)
	ErrTranscode = fmt.Errorf("%w: ffmpeg failed", errs.ErrConversion)
	ErrNoPeak    = fmt.Errorf("%w: peak level not reported", errs.ErrConversion)
)

const notInstalledHint = `Please install ffmpeg:

macOS:
  brew install ffmpeg

Windows:
  1. Download from https://ffmpeg.org/download.html
     (Choose 'Windows builds' -> 'full' build)
  2. Extract and add bin/ folder to PATH

Linux:
  sudo apt install ffmpeg  (Ubuntu/Debian)
  sudo dnf install ffmpeg  (Fedora)`

const noSoxrHint = `The 'soxr' library is required for high-quality resampling.

macOS:
  brew reinstall ffmpeg

Windows:
  Download the 'full' build (not 'essentials') from:
  https://ffmpeg.org/download.html

Linux:
  sudo apt install ffmpeg  (should include soxr)`

// InstallHint returns installation instructions matching err, or "" when
// err is not about the tool itself.
func InstallHint(err error) string {
	switch {
	case errors.Is(err, ErrNotInstalled):
		return notInstalledHint
	case errors.Is(err, ErrNoSoxr):
		return noSoxrHint
	default:
		return ""
	}
}
