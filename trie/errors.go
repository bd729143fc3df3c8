package trie

import (
	"errors"
	"fmt"
)

// errTrie is the base sentinel every tinytrie error wraps, in the manner
// of a package-scoped root error (cf. ianlewis/go-dictzip's errDictzip).
var errTrie = errors.New("tinytrie")

// Sentinel error kinds. All are wrapped versions of errTrie and are
// checkable with errors.Is. These mirror a closed Result-enum shape
// (RESULT_OK / RESULT_ERROR_CORRUPTED_DATA / RESULT_ERROR_UNSUPPORTED_VERSION
// / RESULT_ERROR_BUFFER_TOO_SMALL) translated into Go error values.
var (
	// ErrUnsupportedVersion means the header declared a format version
	// other than the one this package understands. Fatal at Open.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", errTrie)

	// ErrUnsupportedFormat means the header was malformed in a way other
	// than version (e.g. the TERMINAL slot collided with an alphabet
	// character). Fatal at Open.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", errTrie)

	// ErrTruncated means the stream was shorter than its declared header,
	// or a bit-codec read ran past the end of the stream. Fatal at Open.
	ErrTruncated = fmt.Errorf("%w: truncated stream", errTrie)

	// ErrCorruptData means a query-time traversal found an out-of-range
	// pointer, an index outside the alphabet, or a read past the body.
	// Surfaced from query operations; the query returns no matches
	// alongside this error.
	ErrCorruptData = fmt.Errorf("%w: corrupt data", errTrie)

	// ErrInvalidPattern means the pattern contains characters that are
	// neither the wildcard nor members of the trie's alphabet. Engine
	// operations treat this as "no possible match" and return an empty
	// result rather than failing; it is exported so callers who want to
	// distinguish "no match" from "malformed query" still can.
	ErrInvalidPattern = fmt.Errorf("%w: invalid pattern", errTrie)
)

// FormatError reports a failure parsing a packed-trie stream at Open
// time. It wraps one of the Err* sentinels above and carries the detail
// that produced it, following scigolib/hdf5's utils.H5Error shape
// (Context + Cause, Unwrap returning Cause).
type FormatError struct {
	Op     string // the parse step that failed, e.g. "header width"
	Kind   error  // one of ErrUnsupportedVersion, ErrUnsupportedFormat, ErrTruncated
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Detail)
}

func (e *FormatError) Unwrap() error { return e.Kind }

// QueryError reports a failure discovered while answering a query
// against an already-open trie. It always wraps ErrCorruptData.
type QueryError struct {
	Pattern string
	Detail  string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v: %s", e.Pattern, ErrCorruptData, e.Detail)
}

func (e *QueryError) Unwrap() error { return ErrCorruptData }
