// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ik5/elmconv"
	"github.com/ik5/elmconv/formats/wav"
)

// FallbackRate is assumed when the source rate cannot be probed.
const FallbackRate = 44100

// MinGainDB is the smallest gain Normalize applies.
const MinGainDB = 0.1

// Runner executes external commands.
type Runner interface {
	Run(name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %w", ErrNotInstalled, err)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// Config configures a Tool.
type Config struct {
	// Path overrides executable discovery with an explicit ffmpeg path.
	Path string
	// Runner replaces os/exec. Nil runs the real executables.
	Runner Runner
	Logger *slog.Logger
}

// Tool is an elmconv.Backend driving the ffmpeg and ffprobe executables.
type Tool struct {
	paths  Paths
	runner Runner
	logger *slog.Logger
}

var _ elmconv.Backend = (*Tool)(nil)

// New locates ffmpeg and returns a Tool using it. It does not check for
// soxr support; call CheckSoxr before converting.
func New(cfg Config) (*Tool, error) {
	paths, err := Locate(cfg.Path)
	if err != nil {
		return nil, err
	}
	return NewWithPaths(paths, cfg), nil
}

// NewWithPaths returns a Tool using already resolved executables.
func NewWithPaths(paths Paths, cfg Config) *Tool {
	t := &Tool{
		paths:  paths,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}
	if t.runner == nil {
		t.runner = execRunner{}
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Paths returns the executables in use.
func (t *Tool) Paths() Paths { return t.paths }

// CheckSoxr verifies that ffmpeg runs and was built with libsoxr.
func (t *Tool) CheckSoxr() error {
	stdout, _, err := t.runner.Run(t.paths.FFmpeg, "-version")
	if err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrNotInstalled, err)
	}
	if !bytes.Contains(stdout, []byte("--enable-libsoxr")) {
		return ErrNoSoxr
	}
	return nil
}

func (t *Tool) probe(path, entry string) (string, error) {
	stdout, stderr, err := t.runner.Run(t.paths.FFprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream="+entry,
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %s", ErrProbe, path, lastLine(stderr))
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (t *Tool) probeInt(path, entry string) (int, error) {
	out, err := t.probe(path, entry)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s %q", ErrProbe, path, entry, out)
	}
	return v, nil
}

// SampleRate returns the rate of the first audio stream in path.
func (t *Tool) SampleRate(path string) (int, error) {
	return t.probeInt(path, "sample_rate")
}

// SampleCount returns the number of frames in path. WAV files are read
// directly when ffprobe does not report a count.
func (t *Tool) SampleCount(path string) (int, error) {
	n, err := t.probeInt(path, "nb_samples")
	if err == nil {
		return n, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		info, werr := wav.ProbeFile(path)
		if werr == nil {
			return info.Frames, nil
		}
	}
	return 0, err
}

// Decode reads the integer PCM data of the WAV file at path.
func (t *Tool) Decode(path string) (*wav.PCM, error) {
	return wav.ReadPCMFile(path)
}

// Transcode converts src to a 24-bit WAV at dst, resampling with soxr when
// targetRate differs from the source rate.
func (t *Tool) Transcode(src, dst string, targetRate int) (elmconv.Transcoded, error) {
	res := elmconv.Transcoded{OriginalRate: FallbackRate}
	if rate, err := t.SampleRate(src); err == nil {
		res.OriginalRate = rate
	} else {
		t.logger.Debug("sample rate unknown, assuming fallback",
			slog.String("file", src),
			slog.Int("rate", FallbackRate),
			slog.Any("error", err))
	}

	args := []string{"-y", "-i", src, "-acodec", "pcm_s24le"}
	res.OutputRate = res.OriginalRate
	if targetRate > 0 && targetRate != res.OriginalRate {
		args = append(args, "-ar", strconv.Itoa(targetRate), "-af", "aresample=resampler=soxr")
		res.OutputRate = targetRate
	}
	args = append(args, dst)

	if _, stderr, err := t.runner.Run(t.paths.FFmpeg, args...); err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return res, err
		}
		return res, fmt.Errorf("%w: %s: %s", ErrTranscode, src, lastLine(stderr))
	}

	t.logger.Debug("transcoded",
		slog.String("file", src),
		slog.Int("original_rate", res.OriginalRate),
		slog.Int("output_rate", res.OutputRate))

	return res, nil
}

var maxVolumeRe = regexp.MustCompile(`max_volume:\s*([-\d.]+)\s*dB`)

// PeakLevel returns the peak of path in dBFS as reported by the
// volumedetect filter.
func (t *Tool) PeakLevel(path string) (float64, error) {
	_, stderr, err := t.runner.Run(t.paths.FFmpeg, "-i", path, "-af", "volumedetect", "-f", "null", "-")
	if err != nil && errors.Is(err, ErrNotInstalled) {
		return 0, err
	}

	m := maxVolumeRe.FindSubmatch(stderr)
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoPeak, path)
	}
	peak, perr := strconv.ParseFloat(string(m[1]), 64)
	if perr != nil {
		return 0, fmt.Errorf("%w: %s: %q", ErrNoPeak, path, m[1])
	}
	return peak, nil
}

// Normalize applies the gain that brings the peak of path to targetDB and
// rewrites it as 24-bit. Gains below MinGainDB are skipped.
func (t *Tool) Normalize(path string, targetDB float64) (float64, error) {
	peak, err := t.PeakLevel(path)
	if err != nil {
		return 0, err
	}

	gain := targetDB - peak
	if math.Abs(gain) < MinGainDB {
		return 0, nil
	}

	tmp := path + ".tmp.wav"
	_, stderr, err := t.runner.Run(t.paths.FFmpeg,
		"-y", "-i", path,
		"-af", "volume="+strconv.FormatFloat(gain, 'f', -1, 64)+"dB",
		"-acodec", "pcm_s24le",
		tmp,
	)
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: %s: %s", ErrTranscode, path, lastLine(stderr))
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing %s: %w", path, err)
	}
	return gain, nil
}

func lastLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
