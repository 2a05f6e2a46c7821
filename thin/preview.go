// SPDX-License-Identifier: EPL-2.0

package thin

import "github.com/ik5/elmconv/zone"

// Preview is the dry-run view of a thinning pass.
type Preview struct {
	Input   zone.Analysis
	Options Options
	Result  Result
}

// NewPreview analyzes zones and computes what Apply would keep without
// touching anything on disk.
func NewPreview(zones []zone.Zone, opts Options) (Preview, error) {
	res, err := Apply(zones, opts)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Input: zone.Analyze(zones), Options: opts, Result: res}, nil
}
