// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/elmconv"
	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/ffmpeg"
	"github.com/ik5/elmconv/internal/config"
	"github.com/ik5/elmconv/native"
	"github.com/ik5/elmconv/thin"
)

type flags struct {
	resampleRate         int
	noResample           bool
	roundLoop            bool
	accurateRatio        bool
	optimizeLoop         bool
	searchRange          int
	singleCycleThreshold int
	noSingleCycle        bool
	noEmbedLoop          bool
	prefix               string
	normalize            float64

	thin            int
	thinPreview     bool
	thinMaxInterval int
	thinAnchor      string

	native  bool
	ffmpeg  string
	jobs    int
	verbose bool
}

func newRootCmd(cfg config.Config) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "elmconv INPUT_FILE... OUTPUT_DIR",
		Short: "Convert EXS24/SFZ instruments to Elektron Tonverk format.",
		Long: `Convert EXS24/SFZ instruments to Elektron Tonverk format.

Outputs a .elmulti file and WAV samples in a flat folder per instrument.
Input arguments may be glob patterns.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.resampleRate, "resample-rate", "R", cfg.ResampleRate, "resample to the given rate in Hz")
	fl.BoolVar(&f.noResample, "no-resample", false, "keep the original sample rate")
	fl.BoolVar(&f.roundLoop, "round-loop", false, "round loop points after resampling instead of truncating")
	fl.BoolVar(&f.accurateRatio, "use-accurate-ratio", false, "derive the resample ratio from actual file lengths")
	fl.BoolVarP(&f.optimizeLoop, "optimize-loop", "O", false, "optimize loop points after resampling for seamless loops")
	fl.IntVar(&f.searchRange, "loop-search-range", cfg.SearchRange, "samples to search in each direction for loop optimization")
	fl.IntVar(&f.singleCycleThreshold, "single-cycle-threshold", cfg.SingleCycleThreshold, "max loop length in samples treated as single-cycle (0 disables)")
	fl.BoolVar(&f.noSingleCycle, "no-single-cycle", false, "disable single-cycle waveform detection")
	fl.BoolVar(&f.noEmbedLoop, "no-embed-loop", false, "do not embed loop info (smpl chunk) into WAV files")
	fl.StringVar(&f.prefix, "prefix", "", "prefix for the instrument name and file names")
	fl.Float64VarP(&f.normalize, "normalize", "N", 0, "peak normalize samples to the given dB level (use --normalize=-3 for a value)")
	fl.Lookup("normalize").NoOptDefVal = "0"

	fl.IntVarP(&f.thin, "thin", "T", 0, "keep 1 of every N pitches")
	fl.BoolVar(&f.thinPreview, "thin-preview", false, "show what --thin would do without converting")
	fl.IntVar(&f.thinMaxInterval, "thin-max-interval", 0, "limit the resulting interval to N semitones")
	fl.StringVar(&f.thinAnchor, "thin-anchor", "", "base note for thinning selection (0-11 or C, C#, Db, ...)")

	fl.BoolVar(&f.native, "native", cfg.Native, "transcode in process instead of with ffmpeg")
	fl.StringVar(&f.ffmpeg, "ffmpeg", cfg.FFmpeg, "path to the ffmpeg executable")
	fl.IntVarP(&f.jobs, "jobs", "j", cfg.Workers, "instruments converted in parallel (0 = one per CPU)")

	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug details")

	cmd.AddCommand(newResampleCmd(cfg, &f.verbose), newAnalyzeCmd(cfg, &f.verbose))
	return cmd
}

// thinOptions validates the thinning flags. It returns nil when --thin was
// not given.
func thinOptions(cmd *cobra.Command, f *flags) (*thin.Options, error) {
	changed := cmd.Flags().Changed
	if !changed("thin") {
		switch {
		case f.thinPreview:
			return nil, errs.Validationf("--thin-preview requires --thin to be specified")
		case changed("thin-max-interval"):
			return nil, errs.Validationf("--thin-max-interval requires --thin to be specified")
		case changed("thin-anchor"):
			return nil, errs.Validationf("--thin-anchor requires --thin to be specified")
		}
		return nil, nil
	}

	if f.thin < thin.MinFactor {
		return nil, errs.Validationf("--thin value must be >= %d", thin.MinFactor)
	}

	opts := &thin.Options{Factor: f.thin, MaxInterval: f.thinMaxInterval}
	if f.thinAnchor != "" {
		anchor, err := thin.ParseAnchor(f.thinAnchor)
		if err != nil {
			return nil, err
		}
		opts.Anchor = anchor
	}
	return opts, nil
}

// options maps the flags onto conversion options.
func options(cmd *cobra.Command, f *flags, thinOpts *thin.Options) elmconv.Options {
	opts := elmconv.Options{
		TargetRate:           f.resampleRate,
		RoundLoop:            f.roundLoop,
		AccurateRatio:        f.accurateRatio,
		OptimizeLoops:        f.optimizeLoop,
		SearchRange:          f.searchRange,
		SingleCycleThreshold: f.singleCycleThreshold,
		EmbedLoop:            !f.noEmbedLoop,
		Prefix:               f.prefix,
		Normalize:            cmd.Flags().Changed("normalize"),
		NormalizeDB:          f.normalize,
		Thin:                 thinOpts,
	}
	if f.noResample {
		opts.TargetRate = 0
	}
	if f.noSingleCycle {
		opts.SingleCycleThreshold = 0
	}
	return opts
}

// newBackend returns the in-process backend or a soxr-capable ffmpeg.
func newBackend(f *flags, logger *slog.Logger) (elmconv.Backend, error) {
	if f.native {
		return native.New(native.Config{Logger: logger}), nil
	}

	tool, err := ffmpeg.New(ffmpeg.Config{Path: f.ffmpeg, Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := tool.CheckSoxr(); err != nil {
		return nil, err
	}
	logger.Debug("using ffmpeg", slog.String("ffmpeg", tool.Paths().FFmpeg), slog.String("ffprobe", tool.Paths().FFprobe))
	return tool, nil
}

func runConvert(cmd *cobra.Command, args []string, f *flags) error {
	logger := newLogger(cmd.ErrOrStderr(), f.verbose)
	out := cmd.OutOrStdout()

	thinOpts, err := thinOptions(cmd, f)
	if err != nil {
		return err
	}
	opts := options(cmd, f, thinOpts)
	if err := opts.Validate(); err != nil {
		return err
	}

	outDir := args[len(args)-1]
	inputs, err := expandInputs(args[:len(args)-1], outDir, logger)
	if err != nil {
		return err
	}
	if err := checkOutputDir(outDir); err != nil {
		return err
	}

	backend, err := newBackend(f, logger)
	if err != nil {
		return err
	}
	conv := elmconv.NewConverter(backend, logger)

	if f.thinPreview {
		for _, input := range inputs {
			p, err := conv.Preview(input, *thinOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			fmt.Fprintln(out, renderPreview(input, p))
		}
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to convert\n", len(inputs))

	stats, failures, err := conv.ConvertBatch(cmd.Context(), inputs, outDir, opts, f.jobs)
	if stats != nil {
		for _, sum := range stats.Instruments {
			fmt.Fprintln(out, renderInstrument(sum))
		}
		fmt.Fprintln(out, renderSummary(stats, opts))
	}
	if err != nil {
		return err
	}

	if len(failures) > 0 {
		for _, fail := range failures {
			logger.Error("conversion failed", slog.String("input", fail.Input), slog.Any("error", fail.Err))
		}
		if len(failures) == 1 {
			return failures[0]
		}
		return fmt.Errorf("%w: %d of %d instruments failed", errs.ErrConversion, len(failures), len(inputs))
	}
	return nil
}
