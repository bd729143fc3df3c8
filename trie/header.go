package trie

import (
	"fmt"

	"github.com/readcross/tinytrie/bitio"
)

// Fixed field widths within the header, in bits. These are bit-packed,
// not byte-aligned.
const (
	headerWidthField  = 10
	versionField      = 10
	offsetSignField   = 1
	offsetValField    = 21
	charWidthField    = 8
	pointerWidthField = 8

	// fixedHeaderBits is the sum of the fields above: the alphabet table
	// starts at the next 6-bit (one base64 character) boundary at or
	// after this many bits.
	fixedHeaderBits = headerWidthField + versionField + offsetSignField +
		offsetValField + charWidthField + pointerWidthField

	supportedVersion = 0

	// terminal is the sentinel alphabet index reserved for end-of-word.
	terminal = 0
)

// parseHeader decodes the self-describing prefix of a packed-trie base64
// stream and returns a fully populated PackedTrie (minus nothing — the
// body is decoded here too, so the result is ready to query).
//
// Reads a small fixed prefix, derives segment sizes from it, then
// bounds-checks and decodes the remainder — the header is a bit-packed
// multi-field structure rather than a single descriptor byte.
func parseHeader(stream string) (*PackedTrie, error) {
	headerWidth, err := bitio.ReadFieldBase64(stream, 0, headerWidthField)
	if err != nil {
		return nil, &FormatError{Op: "header width", Kind: ErrTruncated, Detail: err.Error()}
	}
	h := int(headerWidth)
	if h <= 0 || h > len(stream) {
		return nil, &FormatError{
			Op:     "header width",
			Kind:   ErrTruncated,
			Detail: fmt.Sprintf("declared header width %d exceeds stream length %d", h, len(stream)),
		}
	}
	header := stream[:h]
	body := stream[h:]

	version, err := bitio.ReadFieldBase64(header, headerWidthField, versionField)
	if err != nil {
		return nil, &FormatError{Op: "version", Kind: ErrTruncated, Detail: err.Error()}
	}
	if version != supportedVersion {
		return nil, &FormatError{
			Op:     "version",
			Kind:   ErrUnsupportedVersion,
			Detail: fmt.Sprintf("got version %d, only %d is supported", version, supportedVersion),
		}
	}

	signBit, err := bitio.ReadFieldBase64(header, headerWidthField+versionField, offsetSignField)
	if err != nil {
		return nil, &FormatError{Op: "offset sign", Kind: ErrTruncated, Detail: err.Error()}
	}
	offsetVal, err := bitio.ReadFieldBase64(header, headerWidthField+versionField+offsetSignField, offsetValField)
	if err != nil {
		return nil, &FormatError{Op: "offset value", Kind: ErrTruncated, Detail: err.Error()}
	}
	offset := int32(offsetVal)
	if signBit == 1 {
		offset = -offset
	}

	afterOffset := headerWidthField + versionField + offsetSignField + offsetValField
	charWidth, err := bitio.ReadFieldBase64(header, afterOffset, charWidthField)
	if err != nil {
		return nil, &FormatError{Op: "char width", Kind: ErrTruncated, Detail: err.Error()}
	}
	pointerWidth, err := bitio.ReadFieldBase64(header, afterOffset+charWidthField, pointerWidthField)
	if err != nil {
		return nil, &FormatError{Op: "pointer width", Kind: ErrTruncated, Detail: err.Error()}
	}
	if charWidth == 0 || pointerWidth == 0 {
		return nil, &FormatError{
			Op:     "field widths",
			Kind:   ErrUnsupportedFormat,
			Detail: "CHAR_WIDTH and POINTER_WIDTH must both be at least 1",
		}
	}

	wordWidth := int(charWidth) + int(pointerWidth) + 1
	if wordWidth > 32 {
		return nil, &FormatError{
			Op:     "field widths",
			Kind:   ErrUnsupportedFormat,
			Detail: fmt.Sprintf("word width %d exceeds 32 bits", wordWidth),
		}
	}

	// The alphabet table starts at the next base64-character boundary at
	// or after fixedHeaderBits, i.e. ceil(fixedHeaderBits/6) characters in.
	alphabetStartChar := (fixedHeaderBits + 5) / 6
	if alphabetStartChar > len(header) {
		return nil, &FormatError{Op: "alphabet", Kind: ErrTruncated, Detail: "header too short to contain alphabet table"}
	}
	alphabet := header[alphabetStartChar:]

	table := make(map[byte]uint32, len(alphabet)+1)
	inverse := make(map[uint32]byte, len(alphabet)+1)
	table[terminal] = 0
	inverse[0] = terminal
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c == terminal {
			return nil, &FormatError{
				Op:     "alphabet",
				Kind:   ErrUnsupportedFormat,
				Detail: "alphabet entry collides with the reserved TERMINAL sentinel",
			}
		}
		idx := uint32(i + 1)
		table[c] = idx
		inverse[idx] = c
	}

	bits, err := bitio.DecodeBodyToBits(body)
	if err != nil {
		return nil, &FormatError{Op: "body", Kind: ErrTruncated, Detail: err.Error()}
	}

	return &PackedTrie{
		offset:       offset,
		body:         bits,
		table:        table,
		inverse:      inverse,
		wordWidth:    wordWidth,
		charWidth:    int(charWidth),
		pointerWidth: int(pointerWidth),
		charShift:    1 + int(pointerWidth),
		pointerMask:  uint32(1)<<pointerWidth - 1,
		charMask:     uint32(1)<<charWidth - 1,
	}, nil
}
