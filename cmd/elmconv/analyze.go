// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/elmconv/analyze"
	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/internal/config"
	"github.com/ik5/elmconv/zone"
)

var statusSymbols = map[analyze.Status]string{
	analyze.Excellent: "✓✓",
	analyze.Good:      "✓",
	analyze.Fair:      "~",
	analyze.Poor:      "✗",
}

type analyzeFlags struct {
	all       bool
	pitch     bool
	samples   bool
	sort      string
	threshold int
}

// newAnalyzeCmd checks loop seams of converted instruments.
func newAnalyzeCmd(cfg config.Config, verbose *bool) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze DIR",
		Short: "Report loop seam continuity of converted instruments",
		Long: `Report loop seam continuity of converted instruments.

Reads the mapping in DIR (or in every subdirectory with --all), measures the
jump between each loop's last and first frame and checks the embedded smpl
loop against the mapping.

  [✓✓] EXCELLENT  diff < 0.1%
  [✓]  GOOD       diff < 1.0%
  [~]  FAIR       diff < 5.0%
  [✗]  POOR       diff >= 5.0%
  [SC] single-cycle loop, pitch takes priority over the seam`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], f, newLogger(cmd.ErrOrStderr(), *verbose))
		},
	}

	fl := cmd.Flags()
	fl.BoolVarP(&f.all, "all", "a", false, "analyze every subdirectory of DIR")
	fl.BoolVarP(&f.pitch, "pitch", "p", false, "show the pitch implied by the loop length")
	fl.BoolVarP(&f.samples, "samples", "s", false, "list every looped sample")
	fl.StringVar(&f.sort, "sort", "name", "order instruments by name, diff or length")
	fl.IntVar(&f.threshold, "single-cycle-threshold", cfg.SingleCycleThreshold, "max loop length in samples treated as single-cycle")
	return cmd
}

func runAnalyze(cmd *cobra.Command, dir string, f *analyzeFlags, logger *slog.Logger) error {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return errs.Validationf("directory not found: %s", dir)
	}

	if err := analyze.SortBy(nil, f.sort); err != nil {
		return errs.Validationf("%v", err)
	}

	a := &analyze.Analyzer{SingleCycleThreshold: f.threshold, Logger: logger}
	out := cmd.OutOrStdout()

	if !f.all {
		res, err := a.Dir(dir)
		if err != nil {
			res.Err = err
		}
		fmt.Fprint(out, renderAnalysis(res, f))
		return nil
	}

	results, err := a.Tree(dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errs.Validationf("no subdirectories found in %s", dir)
	}
	analyze.SortBy(results, f.sort)

	fmt.Fprintf(out, "Analyzing %d instruments in %s\n\n", len(results), dir)
	for _, res := range results {
		fmt.Fprint(out, renderAnalysis(res, f))
	}
	fmt.Fprintln(out, renderAnalysisSummary(results))
	return nil
}

func pitchLabel(p analyze.Pitch) string {
	return fmt.Sprintf("%s(%+.0fc)", strings.ToUpper(zone.NoteName(p.MIDI)), p.Cents)
}

// renderAnalysis reports one instrument on one line, followed by its
// samples when requested.
func renderAnalysis(res analyze.Instrument, f *analyzeFlags) string {
	var b strings.Builder

	switch {
	case res.Err != nil:
		fmt.Fprintf(&b, "  %s: %s\n", res.Name, warnStyle.Render("Error: "+res.Err.Error()))
		return b.String()
	case !res.HasLoops:
		fmt.Fprintf(&b, "  %s: %s\n", res.Name, faintStyle.Render("No loops"))
		return b.String()
	}

	status := res.Status()
	marker := "    "
	if res.SingleCycle {
		marker = "[SC]"
	}
	line := fmt.Sprintf("diff=%.2f%%, loop_len=%d", res.MaxPercent, res.LoopLength)
	if f.pitch && res.Pitch != nil {
		line += ", pitch=" + pitchLabel(*res.Pitch)
	}

	style := valueStyle
	if status >= analyze.Fair {
		style = warnStyle
	}
	fmt.Fprintf(&b, "  [%s] %s %s: %s (%s)\n",
		statusSymbols[status], marker, headerStyle.Render(res.Name), line, style.Render(status.String()))

	if n := res.Mismatches(); n > 0 {
		b.WriteString("      " + warnStyle.Render(fmt.Sprintf("%d sample(s) with a smpl loop differing from the mapping", n)) + "\n")
	}

	if !f.samples {
		return b.String()
	}
	for _, s := range res.Samples {
		if !s.Loop {
			continue
		}
		if s.Err != nil {
			fmt.Fprintf(&b, "      %s: %s\n", s.Name, warnStyle.Render("ERROR - "+s.Err.Error()))
			continue
		}
		detail := fmt.Sprintf("diff=%.2f%%, len=%d", s.Percent, s.Length)
		if s.HasPitch {
			detail += fmt.Sprintf(", %.1fHz (%s)", s.Pitch.Freq, pitchLabel(s.Pitch))
		}
		switch {
		case !s.HasSampler:
			detail += ", " + faintStyle.Render("no smpl")
		case !s.SamplerMatchesLoop:
			detail += ", " + warnStyle.Render(fmt.Sprintf("smpl loop %d-%d", s.SamplerStart, s.SamplerEnd))
		}
		fmt.Fprintf(&b, "      %s: %s\n", s.Name, detail)
	}
	return b.String()
}

// renderAnalysisSummary counts instruments per status.
func renderAnalysisSummary(results []analyze.Instrument) string {
	counts := map[analyze.Status]int{}
	noLoops, failed := 0, 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case !res.HasLoops:
			noLoops++
		default:
			counts[res.Status()]++
		}
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("--- Summary ---") + "\n")
	field(&b, "  ", "EXCELLENT (< 0.1%)", "%d", counts[analyze.Excellent])
	field(&b, "  ", "GOOD (< 1.0%)", "%d", counts[analyze.Good])
	field(&b, "  ", "FAIR (< 5.0%)", "%d", counts[analyze.Fair])
	field(&b, "  ", "POOR (>= 5.0%)", "%d", counts[analyze.Poor])
	field(&b, "  ", "No loops", "%d", noLoops)
	if failed > 0 {
		field(&b, "  ", "Errors", "%d", failed)
	}
	return b.String()
}
