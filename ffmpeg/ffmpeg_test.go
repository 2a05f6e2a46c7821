// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/formats/wav"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	handle func(name string, args []string) ([]byte, []byte, error)
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name, args})
	f.mu.Unlock()

	if f.handle == nil {
		return nil, nil, nil
	}
	return f.handle(name, args)
}

func (f *fakeRunner) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

var testPaths = Paths{FFmpeg: "/bin/ffmpeg", FFprobe: "/bin/ffprobe"}

func newTool(handle func(name string, args []string) ([]byte, []byte, error)) (*Tool, *fakeRunner) {
	r := &fakeRunner{handle: handle}
	return NewWithPaths(testPaths, Config{Runner: r}), r
}

// probeRate answers ffprobe sample_rate queries with rate.
func probeRate(rate string) func(string, []string) ([]byte, []byte, error) {
	return func(name string, args []string) ([]byte, []byte, error) {
		if name == testPaths.FFprobe {
			if rate == "" {
				return nil, []byte("Invalid data found"), errors.New("exit status 1")
			}
			return []byte(rate + "\n"), nil, nil
		}
		return nil, nil, nil
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	onPath := func(found ...string) func(string) (string, error) {
		return func(name string) (string, error) {
			if slices.Contains(found, name) {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		}
	}
	exists := func(paths ...string) func(string) bool {
		return func(p string) bool { return slices.Contains(paths, p) }
	}

	tests := []struct {
		name     string
		override string
		goos     string
		lookPath func(string) (string, error)
		isExec   func(string) bool
		want     Paths
		wantErr  error
	}{
		{
			name:     "path",
			goos:     "linux",
			lookPath: onPath("ffmpeg", "ffprobe"),
			isExec:   exists(),
			want:     Paths{"/usr/bin/ffmpeg", "/usr/bin/ffprobe"},
		},
		{
			name:     "override",
			override: "/opt/ff/ffmpeg",
			goos:     "linux",
			lookPath: onPath("ffmpeg"),
			isExec:   exists("/opt/ff/ffmpeg"),
			want:     Paths{"/opt/ff/ffmpeg", "/opt/ff/ffprobe"},
		},
		{
			name:     "missing override",
			override: "/nope/ffmpeg",
			goos:     "linux",
			lookPath: onPath("ffmpeg"),
			isExec:   exists(),
			wantErr:  ErrNotInstalled,
		},
		{
			name:     "homebrew",
			goos:     "darwin",
			lookPath: onPath(),
			isExec:   exists("/usr/local/bin/ffmpeg"),
			want:     Paths{"/usr/local/bin/ffmpeg", "/usr/local/bin/ffprobe"},
		},
		{
			name:     "no search paths on linux",
			goos:     "linux",
			lookPath: onPath(),
			isExec:   exists("/usr/local/bin/ffmpeg"),
			wantErr:  ErrNotInstalled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := locate(tt.override, tt.goos, tt.lookPath, tt.isExec)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("locate() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("locate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTool_CheckSoxr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stdout string
		runErr error
		want   error
	}{
		{"soxr", "ffmpeg version 7.1 configuration: --enable-gpl --enable-libsoxr", nil, nil},
		{"no soxr", "ffmpeg version 7.1 configuration: --enable-gpl", nil, ErrNoSoxr},
		{"fails", "", errors.New("exit status 1"), ErrNotInstalled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tool, r := newTool(func(string, []string) ([]byte, []byte, error) {
				return []byte(tt.stdout), nil, tt.runErr
			})

			err := tool.CheckSoxr()
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckSoxr() error = %v, want %v", err, tt.want)
			}
			if tt.want != nil && !errors.Is(err, errs.ErrToolNotFound) {
				t.Errorf("CheckSoxr() error = %v, want ErrToolNotFound category", err)
			}
			if c := r.last(); c.name != testPaths.FFmpeg || !slices.Equal(c.args, []string{"-version"}) {
				t.Errorf("ran %v", c)
			}
		})
	}
}

func TestTool_SampleRate(t *testing.T) {
	t.Parallel()

	tool, r := newTool(probeRate("44100"))
	rate, err := tool.SampleRate("in.aif")
	if err != nil || rate != 44100 {
		t.Fatalf("SampleRate() = (%d, %v), want 44100", rate, err)
	}

	want := []string{
		"-v", "error", "-select_streams", "a:0", "-show_entries", "stream=sample_rate",
		"-of", "default=noprint_wrappers=1:nokey=1", "in.aif",
	}
	if c := r.last(); !slices.Equal(c.args, want) {
		t.Errorf("ffprobe args = %v, want %v", c.args, want)
	}

	bad, _ := newTool(probeRate("N/A"))
	if _, err := bad.SampleRate("x.wav"); !errors.Is(err, ErrProbe) {
		t.Errorf("SampleRate(N/A) error = %v, want ErrProbe", err)
	}
}

func TestTool_SampleCount_WAVFallback(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "s.wav")
	if err := wav.WritePCMFile(path, &wav.PCM{Data: make([]int, 123), Channels: 1, SampleRate: 48000, BitDepth: 24}); err != nil {
		t.Fatal(err)
	}

	tool, _ := newTool(probeRate(""))
	n, err := tool.SampleCount(path)
	if err != nil || n != 123 {
		t.Errorf("SampleCount() = (%d, %v), want 123", n, err)
	}

	if _, err := tool.SampleCount("missing.aif"); !errors.Is(err, ErrProbe) {
		t.Errorf("SampleCount(aif) error = %v, want ErrProbe", err)
	}
}

func TestTool_Transcode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     string
		target   int
		wantOrig int
		wantOut  int
		wantArgs []string
	}{
		{
			name: "resample", rate: "44100", target: 48000, wantOrig: 44100, wantOut: 48000,
			wantArgs: []string{"-y", "-i", "in.aif", "-acodec", "pcm_s24le", "-ar", "48000", "-af", "aresample=resampler=soxr", "out.wav"},
		},
		{
			name: "same rate", rate: "48000", target: 48000, wantOrig: 48000, wantOut: 48000,
			wantArgs: []string{"-y", "-i", "in.aif", "-acodec", "pcm_s24le", "out.wav"},
		},
		{
			name: "keep rate", rate: "96000", target: 0, wantOrig: 96000, wantOut: 96000,
			wantArgs: []string{"-y", "-i", "in.aif", "-acodec", "pcm_s24le", "out.wav"},
		},
		{
			name: "unknown rate", rate: "", target: 48000, wantOrig: FallbackRate, wantOut: 48000,
			wantArgs: []string{"-y", "-i", "in.aif", "-acodec", "pcm_s24le", "-ar", "48000", "-af", "aresample=resampler=soxr", "out.wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tool, r := newTool(probeRate(tt.rate))
			got, err := tool.Transcode("in.aif", "out.wav", tt.target)
			if err != nil {
				t.Fatalf("Transcode() error = %v", err)
			}
			if got.OriginalRate != tt.wantOrig || got.OutputRate != tt.wantOut {
				t.Errorf("Transcode() = %+v, want %d -> %d", got, tt.wantOrig, tt.wantOut)
			}
			if c := r.last(); c.name != testPaths.FFmpeg || !slices.Equal(c.args, tt.wantArgs) {
				t.Errorf("ffmpeg args = %v, want %v", c.args, tt.wantArgs)
			}
		})
	}
}

func TestTool_Transcode_Failure(t *testing.T) {
	t.Parallel()

	tool, _ := newTool(func(name string, _ []string) ([]byte, []byte, error) {
		if name == testPaths.FFprobe {
			return []byte("44100"), nil, nil
		}
		return nil, []byte("header\nin.aif: Invalid data found when processing input\n"), errors.New("exit status 1")
	})

	_, err := tool.Transcode("in.aif", "out.wav", 48000)
	if !errors.Is(err, ErrTranscode) || !errors.Is(err, errs.ErrConversion) {
		t.Fatalf("Transcode() error = %v, want ErrTranscode", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("Transcode() error = %q, want last stderr line", err)
	}
}

func TestTool_PeakLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stderr  string
		want    float64
		wantErr error
	}{
		{"negative", "[Parsed_volumedetect_0] mean_volume: -20.1 dB\n[Parsed_volumedetect_0] max_volume: -3.5 dB\n", -3.5, nil},
		{"zero", "max_volume: 0.0 dB", 0, nil},
		{"missing", "Output file is empty", 0, ErrNoPeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tool, _ := newTool(func(string, []string) ([]byte, []byte, error) {
				return nil, []byte(tt.stderr), nil
			})
			got, err := tool.PeakLevel("a.wav")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PeakLevel() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PeakLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTool_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		peak     string
		target   float64
		want     float64
		wantArgs []string
	}{
		{"raise", "-3.5", 0, 3.5, []string{"-y", "-i", "", "-af", "volume=3.5dB", "-acodec", "pcm_s24le", ""}},
		{"lower", "-1", -6, -5, []string{"-y", "-i", "", "-af", "volume=-5dB", "-acodec", "pcm_s24le", ""}},
		{"at target", "-0.05", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "a.wav")
			os.WriteFile(path, []byte("original"), 0o644)

			tool, r := newTool(func(_ string, args []string) ([]byte, []byte, error) {
				if slices.Contains(args, "volumedetect") {
					return nil, []byte("max_volume: " + tt.peak + " dB"), nil
				}
				return nil, nil, os.WriteFile(args[len(args)-1], []byte("normalized"), 0o644)
			})

			gain, err := tool.Normalize(path, tt.target)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if gain != tt.want {
				t.Errorf("Normalize() gain = %v, want %v", gain, tt.want)
			}

			data, _ := os.ReadFile(path)
			if tt.wantArgs == nil {
				if string(data) != "original" || len(r.calls) != 1 {
					t.Errorf("file rewritten for gain below threshold")
				}
				return
			}

			want := slices.Clone(tt.wantArgs)
			want[2], want[len(want)-1] = path, path+".tmp.wav"
			if c := r.last(); !slices.Equal(c.args, want) {
				t.Errorf("ffmpeg args = %v, want %v", c.args, want)
			}
			if string(data) != "normalized" {
				t.Errorf("file content = %q, want normalized", data)
			}
			if _, err := os.Stat(path + ".tmp.wav"); !os.IsNotExist(err) {
				t.Errorf("temporary file left behind")
			}
		})
	}
}

func TestInstallHint(t *testing.T) {
	t.Parallel()

	if h := InstallHint(ErrNotInstalled); !strings.Contains(h, "brew install ffmpeg") {
		t.Errorf("InstallHint(ErrNotInstalled) = %q", h)
	}
	if h := InstallHint(ErrNoSoxr); !strings.Contains(h, "soxr") {
		t.Errorf("InstallHint(ErrNoSoxr) = %q", h)
	}
	if h := InstallHint(ErrProbe); h != "" {
		t.Errorf("InstallHint(ErrProbe) = %q, want empty", h)
	}
}
