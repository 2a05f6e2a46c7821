// SPDX-License-Identifier: EPL-2.0

// Package config reads the environment defaults of the elmconv command.
// Command line flags override every value.
package config

import (
	"os"
	"strconv"

	"github.com/ik5/elmconv"
	"github.com/ik5/elmconv/loop"
)

// Config holds the defaults taken from the environment.
type Config struct {
	ResampleRate         int
	SearchRange          int
	SingleCycleThreshold int

	// FFmpeg overrides ffmpeg discovery with an explicit path.
	FFmpeg string
	// Native selects the in-process backend instead of ffmpeg.
	Native bool
	// Workers bounds parallel conversions; 0 means one per CPU.
	Workers int
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		ResampleRate:         envInt("ELMCONV_RESAMPLE_RATE", elmconv.DefaultTargetRate),
		SearchRange:          envInt("ELMCONV_SEARCH_RANGE", loop.DefaultSearchRange),
		SingleCycleThreshold: envInt("ELMCONV_SINGLE_CYCLE_THRESHOLD", loop.DefaultSingleCycleThreshold),
		FFmpeg:               envStr("ELMCONV_FFMPEG", ""),
		Native:               envBool("ELMCONV_NATIVE", false),
		Workers:              envInt("ELMCONV_WORKERS", 0),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
