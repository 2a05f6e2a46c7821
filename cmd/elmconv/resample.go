// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/elmconv/internal/config"
	"github.com/ik5/elmconv/native"
)

// newResampleCmd transcodes a single audio file with the in-process
// decoders and resampler.
func newResampleCmd(cfg config.Config, verbose *bool) *cobra.Command {
	var (
		rate int
		mono bool
	)

	cmd := &cobra.Command{
		Use:   "resample INPUT OUTPUT.wav",
		Short: "Transcode one wav, aiff, mp3, ogg or flac file to 24-bit WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), *verbose)
			codec := native.New(native.Config{Mono: mono, Logger: logger})

			res, err := codec.Transcode(args[0], args[1], rate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s (%d -> %d Hz)\n", args[1], res.OriginalRate, res.OutputRate)
			return nil
		},
	}

	cmd.Flags().IntVarP(&rate, "rate", "r", cfg.ResampleRate, "output rate in Hz (0 keeps the source rate)")
	cmd.Flags().BoolVar(&mono, "mono", false, "fold all channels to one")
	return cmd
}
