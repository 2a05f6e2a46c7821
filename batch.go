// SPDX-License-Identifier: EPL-2.0

package elmconv

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/elmconv/errs"
)

// Failure is an instrument that could not be converted.
type Failure struct {
	Input string
	Err   error
}

func (f Failure) Error() string { return f.Input + ": " + f.Err.Error() }
func (f Failure) Unwrap() error { return f.Err }

// ConvertBatch converts inputs with at most workers conversions running at
// once; workers <= 0 means one per CPU. A failing instrument does not stop
// its siblings and is listed in the returned failures. Only a missing
// audio tool, which would fail every remaining conversion the same way,
// cancels the batch and is returned as the error. Stats are merged in
// input order.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []string, outDir string, opts Options, workers int) (*Stats, []Failure, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*Stats, len(inputs))
	failed := make([]error, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			stats, err := c.Convert(input, outDir, opts)
			results[i], failed[i] = stats, err
			if err != nil {
				c.logger().Error("conversion failed", slog.String("input", input), slog.Any("error", err))
				if errors.Is(err, errs.ErrToolNotFound) {
					return err
				}
			}
			return nil
		})
	}
	waitErr := g.Wait()

	total := &Stats{}
	var failures []Failure
	for i, input := range inputs {
		total.Merge(results[i])
		if failed[i] != nil {
			failures = append(failures, Failure{Input: input, Err: failed[i]})
		}
	}
	return total, failures, waitErr
}
