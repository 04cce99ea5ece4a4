// Package errorspkg provides errors shared by every ledger layer.
package errorspkg

import "errors"

// ErrInternal indicates an unexpected failure that is not exposed to callers.
var ErrInternal = errors.New("internal")
