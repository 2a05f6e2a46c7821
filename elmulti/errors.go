// SPDX-License-Identifier: EPL-2.0

package elmulti

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

// ErrSyntax is returned by Parse for lines it cannot read.
var ErrSyntax = fmt.Errorf("%w: mapping syntax", errs.ErrInvalidFormat)
