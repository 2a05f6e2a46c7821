// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/elmconv"
	"github.com/ik5/elmconv/thin"
	"github.com/ik5/elmconv/zone"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	faintStyle = lipgloss.NewStyle().Faint(true)
)

func field(b *strings.Builder, indent, name, format string, args ...any) {
	b.WriteString(indent)
	b.WriteString(headerStyle.Render(name + ":"))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(fmt.Sprintf(format, args...)))
	b.WriteString("\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func keptPercent(orig, result int) int {
	if orig == 0 {
		return 0
	}
	return (result*100 + orig/2) / orig
}

func upperNote(pitch int) string {
	return strings.ToUpper(zone.NoteName(pitch))
}

// renderInstrument reports one converted instrument.
func renderInstrument(sum elmconv.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("=== " + sum.Name + " ==="))
	b.WriteString("\n")
	field(&b, "", "Output", "%s", sum.OutputDir)
	b.WriteString("  - " + filepath.Base(sum.Document) + "\n")
	fmt.Fprintf(&b, "  - %d WAV files\n", sum.Samples)
	fmt.Fprintf(&b, "  - %d key zones\n", sum.KeyZones)
	fmt.Fprintf(&b, "  - %d velocity layers total\n", sum.VelocityLayers)
	if sum.RoundRobin > 0 {
		fmt.Fprintf(&b, "  - %d round-robin samples detected\n", sum.RoundRobin)
	}
	if sum.Resampled > 0 {
		fmt.Fprintf(&b, "  - %d samples resampled to %d Hz\n", sum.Resampled, sum.TargetRate)
	}
	if sum.NameWarning != "" {
		b.WriteString(warnStyle.Render("Warning: "+sum.NameWarning) + "\n")
	}
	return b.String()
}

// renderSummary reports the settings and totals of a run.
func renderSummary(stats *elmconv.Stats, opts elmconv.Options) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CONVERSION SUMMARY"))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("--- Settings ---") + "\n")
	if opts.Prefix != "" {
		field(&b, "", "Prefix", "%q", opts.Prefix)
	}
	if opts.TargetRate > 0 {
		field(&b, "", "Resample rate", "%d Hz", opts.TargetRate)
	} else {
		field(&b, "", "Resample rate", "None (keep original)")
	}
	if opts.Normalize {
		field(&b, "", "Normalize level", "%g dB", opts.NormalizeDB)
	} else {
		field(&b, "", "Normalize", "Disabled")
	}
	field(&b, "", "Round loop points", "%s", yesNo(opts.RoundLoop))
	if opts.OptimizeLoops {
		field(&b, "", "Optimize loops", "Yes (search range: %d)", opts.SearchRange)
	} else {
		field(&b, "", "Optimize loops", "No")
	}
	if opts.SingleCycleThreshold > 0 {
		field(&b, "", "Single-cycle threshold", "%d samples", opts.SingleCycleThreshold)
	} else {
		field(&b, "", "Single-cycle detection", "Disabled")
	}
	field(&b, "", "Embed loop info (smpl)", "%s", yesNo(opts.EmbedLoop))

	b.WriteString("\n" + titleStyle.Render("--- Statistics ---") + "\n")
	field(&b, "", "Files processed", "%d", stats.FilesProcessed)

	var extras []string
	if stats.ResampledSamples > 0 {
		extras = append(extras, fmt.Sprintf("resampled: %d", stats.ResampledSamples))
	}
	if stats.NormalizedSamples > 0 {
		extras = append(extras, fmt.Sprintf("normalized: %d", stats.NormalizedSamples))
	}
	total := fmt.Sprintf("%d", stats.TotalSamples)
	if len(extras) > 0 {
		total += " (" + strings.Join(extras, ", ") + ")"
	}
	field(&b, "", "Total samples", "%s", total)

	b.WriteString(headerStyle.Render("Loops:") + "\n")
	field(&b, "  ", "With loop", "%d", stats.LoopsWithLoop)
	if stats.LoopsWithLoop > 0 {
		field(&b, "    ", "Single-cycle", "%d", stats.LoopsSingleCycle)
		normal := fmt.Sprintf("%d", stats.LoopsNormal)
		if stats.LoopsOptimized > 0 {
			normal += fmt.Sprintf(" (optimized: %d)", stats.LoopsOptimized)
		}
		field(&b, "    ", "Normal", "%s", normal)
	}
	field(&b, "  ", "Without loop", "%d", stats.LoopsWithoutLoop)

	if t := stats.Thin; t != nil {
		b.WriteString(headerStyle.Render("Thinning:") + "\n")
		field(&b, "  ", "Factor", "%d (keep 1 of every %d)", t.Factor, t.Factor)
		field(&b, "  ", "Pitches", "%d -> %d (%d%% kept)", t.OriginalPitches, t.ResultPitches,
			keptPercent(t.OriginalPitches, t.ResultPitches))
		field(&b, "  ", "Interval", "%d -> %d semitones", t.OriginalInterval, t.ResultInterval)
	}

	if len(stats.Warnings) == 0 {
		b.WriteString("\n" + faintStyle.Render("--- No warnings ---") + "\n")
		return b.String()
	}

	b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("--- Warnings (%d) ---", len(stats.Warnings))) + "\n")
	for _, w := range stats.Warnings {
		fmt.Fprintf(&b, "  - %s: %s\n", w.File, w.Message)
	}
	return b.String()
}

// maxListedPitches is the longest selection printed in full.
const maxListedPitches = 25

// renderPreview reports what thinning would do to one instrument.
func renderPreview(input string, p thin.Preview) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("THINNING PREVIEW: "+filepath.Base(input)) + "\n\n")

	b.WriteString(headerStyle.Render("Input Analysis:") + "\n")
	field(&b, "  ", "Total zones", "%d", p.Input.ZoneCount)
	field(&b, "  ", "Unique pitches", "%d", p.Input.PitchCount)
	field(&b, "  ", "Current interval", "%d semitones", p.Input.Interval)
	if p.Input.PitchCount > 0 {
		field(&b, "  ", "Pitch range", "%s - %s (MIDI %d-%d)",
			upperNote(p.Input.LowestPitch), upperNote(p.Input.HighestPitch),
			p.Input.LowestPitch, p.Input.HighestPitch)
	}
	field(&b, "  ", "Velocity layers", "%d", p.Input.VelocityLayers)
	if p.Input.HasRoundRobin {
		field(&b, "  ", "Round-robin", "Yes")
	}

	b.WriteString("\n" + headerStyle.Render("Thinning Settings:") + "\n")
	field(&b, "  ", "Factor", "%d (keep 1 of every %d)", p.Options.Factor, p.Options.Factor)
	field(&b, "  ", "Anchor", "%d (%s)", p.Options.Anchor, zone.PitchClassName(p.Options.Anchor))
	if p.Options.MaxInterval > 0 {
		field(&b, "  ", "Max interval", "%d semitones", p.Options.MaxInterval)
	}

	r := p.Result
	b.WriteString("\n" + headerStyle.Render("Result:") + "\n")
	field(&b, "  ", "Remaining pitches", "%d (%d%% of original)", r.ResultPitches, keptPercent(r.OriginalPitches, r.ResultPitches))
	field(&b, "  ", "Removed pitches", "%d", r.Removed())
	field(&b, "  ", "Remaining zones", "%d", r.ResultZones)
	field(&b, "  ", "Result interval", "%d semitones (was %d)", r.ResultInterval, r.OriginalInterval)

	b.WriteString("\n" + headerStyle.Render("Pitches to keep:") + "\n")
	names := make([]string, len(r.Selected))
	for i, pitch := range r.Selected {
		names[i] = fmt.Sprintf("  %3d (%s)", pitch, upperNote(pitch))
	}
	if len(names) > maxListedPitches {
		hidden := len(names) - 25
		names = append(append(names[:20:20], fmt.Sprintf("  ... (%d more)", hidden)), names[len(names)-5:]...)
	}
	for _, n := range names {
		b.WriteString(n + "\n")
	}

	b.WriteString("\n" + faintStyle.Render("Preview complete. Run without --thin-preview to convert."))
	return b.String()
}
