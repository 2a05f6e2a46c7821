// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/elmconv"
	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/formats/wav"
	"github.com/ik5/elmconv/internal/config"
	"github.com/ik5/elmconv/thin"
	"github.com/ik5/elmconv/zone"
)

var testConfig = config.Config{
	ResampleRate:         48000,
	SearchRange:          512,
	SingleCycleThreshold: 5,
	Native:               true,
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// writeTone writes a one-region SFZ instrument with a looped 44.1 kHz tone.
func writeTone(t *testing.T, dir, name string) string {
	t.Helper()

	tone := make([]int, 4410)
	for i := range tone {
		tone[i] = int(1 << 20 * math.Sin(2*math.Pi*float64(i)/100))
	}
	if err := wav.WritePCMFile(filepath.Join(dir, "tone.wav"), &wav.PCM{Data: tone, Channels: 1, SampleRate: 44100, BitDepth: 24}); err != nil {
		t.Fatal(err)
	}

	input := filepath.Join(dir, name+".sfz")
	sfz := "<region> sample=tone.wav key=60 loop_mode=loop_continuous loop_start=100 loop_end=2099\n"
	if err := os.WriteFile(input, []byte(sfz), 0o644); err != nil {
		t.Fatal(err)
	}
	return input
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, stderr bytes.Buffer
	cmd := newRootCmd(testConfig)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, "Tone")
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "--native", "--prefix", "X ", input, outDir)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"Found 1 file(s) to convert", "=== X Tone ===", "1 samples resampled to 48000 Hz", "CONVERSION SUMMARY", "No warnings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	doc, err := os.ReadFile(filepath.Join(outDir, "X Tone", "X Tone.elmulti"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "name = 'X Tone'") {
		t.Errorf("document:\n%s", doc)
	}
	if _, err := os.Stat(filepath.Join(outDir, "X Tone", "X Tone-000-060-c3.wav")); err != nil {
		t.Errorf("sample missing: %v", err)
	}
}

func TestRootCmd_NoResample(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, "Tone")
	outDir := filepath.Join(dir, "out")

	if _, err := run(t, "--native", "--no-resample", "--no-embed-loop", input, outDir); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	doc, err := os.ReadFile(filepath.Join(outDir, "Tone", "Tone.elmulti"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"loop-start = 100", "loop-end = 2099"} {
		if !strings.Contains(string(doc), want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestRootCmd_ThinPreview(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "s.wav"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var sfz strings.Builder
	for key := 36; key <= 72; key += 3 {
		fmt.Fprintf(&sfz, "<region> sample=s.wav key=%d\n", key)
	}
	input := filepath.Join(dir, "Piano.sfz")
	if err := os.WriteFile(input, []byte(sfz.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "--native", "--thin", "2", "--thin-preview", input, outDir)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"THINNING PREVIEW: Piano.sfz", "Unique pitches: 13", "Current interval: 3 semitones", "Pitches to keep:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(outDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("preview created %s", outDir)
	}
}

func TestRootCmd_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, "Tone")
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "preview without thin", args: []string{"--thin-preview", input, dir}, want: "--thin-preview requires --thin"},
		{name: "anchor without thin", args: []string{"--thin-anchor", "C", input, dir}, want: "--thin-anchor requires --thin"},
		{name: "interval without thin", args: []string{"--thin-max-interval", "4", input, dir}, want: "--thin-max-interval requires --thin"},
		{name: "factor too small", args: []string{"--thin", "1", input, dir}, want: "--thin value must be >= 2"},
		{name: "bad anchor", args: []string{"--thin", "2", "--thin-anchor", "H", input, dir}, want: "anchor"},
		{name: "negative range", args: []string{"--loop-search-range", "-1", input, dir}, want: "search range"},
		{name: "no inputs", args: []string{filepath.Join(dir, "*.exs"), dir}, want: "no input files found"},
		{name: "output is file", args: []string{input, file}, want: "OUTPUT_DIR is a file"},
		{name: "unknown format", args: []string{file, filepath.Join(dir, "out")}, want: "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, append([]string{"--native"}, tt.args...)...)
			if err == nil {
				t.Fatal("Execute() error = nil")
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.want)) {
				t.Errorf("Execute() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRootCmd_NormalizeFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		wantOn bool
		wantDB float64
	}{
		{name: "absent", args: nil},
		{name: "bare", args: []string{"--normalize"}, wantOn: true},
		{name: "value", args: []string{"--normalize=-3"}, wantOn: true, wantDB: -3},
		{name: "short", args: []string{"-N=-1.5"}, wantOn: true, wantDB: -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(testConfig)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			on := cmd.Flags().Changed("normalize")
			db, _ := cmd.Flags().GetFloat64("normalize")
			if on != tt.wantOn || db != tt.wantDB {
				t.Errorf("normalize = (%v, %v), want (%v, %v)", on, db, tt.wantOn, tt.wantDB)
			}
		})
	}
}

func TestResampleCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTone(t, dir, "Tone")
	dst := filepath.Join(dir, "out.wav")

	out, err := run(t, "resample", "--rate", "22050", filepath.Join(dir, "tone.wav"), dst)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if want := "Wrote: " + dst + " (44100 -> 22050 Hz)"; !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}

	info, err := wav.ProbeFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", info.SampleRate)
	}
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.sfz", "a.sfz", "c.exs"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{name: "glob", args: []string{filepath.Join(dir, "*.sfz")}, want: []string{"a.sfz", "b.sfz"}},
		{name: "files sorted", args: []string{filepath.Join(dir, "c.exs"), filepath.Join(dir, "a.sfz")}, want: []string{"a.sfz", "c.exs"}},
		{name: "missing skipped", args: []string{filepath.Join(dir, "nope.sfz"), filepath.Join(dir, "b.sfz")}, want: []string{"b.sfz"}},
		{name: "output dir ignored", args: []string{dir, filepath.Join(dir, "c.exs")}, want: []string{"c.exs"}},
		{name: "nothing", args: []string{filepath.Join(dir, "*.wav")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := expandInputs(tt.args, dir, discard())
			if tt.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Errorf("expandInputs() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expandInputs() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expandInputs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if filepath.Base(got[i]) != tt.want[i] {
					t.Errorf("expandInputs()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	stats := &elmconv.Stats{
		FilesProcessed:    2,
		TotalSamples:      10,
		ResampledSamples:  4,
		NormalizedSamples: 3,
		LoopsWithLoop:     6,
		LoopsSingleCycle:  1,
		LoopsNormal:       5,
		LoopsOptimized:    2,
		LoopsWithoutLoop:  4,
		Thin:              &elmconv.ThinStats{Factor: 2, OriginalPitches: 10, ResultPitches: 5, OriginalInterval: 1, ResultInterval: 2},
		Warnings:          []elmconv.Warning{{File: "a.wav", Message: "smpl embedding failed"}},
	}
	opts := elmconv.DefaultOptions()
	opts.Normalize = true
	opts.NormalizeDB = -3

	got := renderSummary(stats, opts)
	for _, want := range []string{
		"Resample rate: 48000 Hz",
		"Normalize level: -3 dB",
		"Total samples: 10 (resampled: 4, normalized: 3)",
		"Normal: 5 (optimized: 2)",
		"Pitches: 10 -> 5 (50% kept)",
		"Warnings (1)",
		"a.wav: smpl embedding failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("renderSummary() missing %q:\n%s", want, got)
		}
	}
}

func TestRenderPreview_LongSelection(t *testing.T) {
	t.Parallel()

	selected := make([]int, 30)
	for i := range selected {
		selected[i] = 30 + i
	}
	p := thin.Preview{
		Input:   zone.Analysis{PitchCount: 60, ZoneCount: 60, Interval: 1, LowestPitch: 30, HighestPitch: 89, VelocityLayers: 1},
		Options: thin.Options{Factor: 2, Anchor: 1},
		Result:  thin.Result{OriginalPitches: 60, ResultPitches: 30, ResultZones: 30, OriginalInterval: 1, ResultInterval: 2, Selected: selected},
	}

	got := renderPreview("in/Big.exs", p)
	for _, want := range []string{"THINNING PREVIEW: Big.exs", "Anchor: 1 (C#)", "30 (50% of original)", "... (5 more)", " 59 (B2)"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderPreview() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, " 50 (") {
		t.Errorf("renderPreview() listed a hidden pitch:\n%s", got)
	}
}

func TestAnalyzeCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, "Tone")
	outDir := filepath.Join(dir, "out")
	if _, err := run(t, "--native", input, outDir); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if err := os.Mkdir(filepath.Join(outDir, "Empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "single instrument",
			args:    []string{"analyze", filepath.Join(outDir, "Tone")},
			want:    []string{"Tone: diff=", "loop_len=2177"},
			notWant: []string{"Summary", "differing"},
		},
		{
			name: "tree with samples and pitch",
			args: []string{"analyze", "--all", "--samples", "--pitch", "--sort", "diff", outDir},
			want: []string{"Analyzing 2 instruments", "Tone-000-060-c3.wav: diff=", "pitch=", "Empty: Error:", "No loops: 0", "Errors: 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output contains %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing dir", args: []string{"analyze", filepath.Join(dir, "nope")}, want: "directory not found"},
		{name: "bad sort", args: []string{"analyze", "--all", "--sort", "pitch", dir}, want: "unknown sort key"},
		{name: "no subdirectories", args: []string{"analyze", "--all", dir}, want: "no subdirectories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
