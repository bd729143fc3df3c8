package bitio

import "errors"

// ErrTruncated is returned when a requested bit window extends past the
// end of the available stream or buffer.
var ErrTruncated = errors.New("bitio: truncated read")
