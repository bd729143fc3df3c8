// Package bitio reads fixed-width integer fields out of a base64-encoded
// bit stream, either directly from the base64 text or from a bit buffer
// decoded from it. Fields may start and end at arbitrary bit offsets; the
// stream is treated as 6-bit big-endian groups concatenated left to right.
package bitio

// Base64Alphabet is the fixed character set used to encode 6-bit values,
// in index order: A-Z (0-25), a-z (26-51), 0-9 (52-61), '+' (62), '/' (63).
// This is not the standard MIME alphabet's padding behavior: no '=' padding
// is ever consumed or emitted here.
const Base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Value maps an ASCII byte to its 6-bit value, or -1 if the byte is
// not part of the alphabet.
var base64Value [256]int8

func init() {
	for i := range base64Value {
		base64Value[i] = -1
	}
	for i := 0; i < len(Base64Alphabet); i++ {
		base64Value[Base64Alphabet[i]] = int8(i)
	}
}

// CharToValue returns the 6-bit value of a base64 character and whether it
// is a member of the alphabet.
func CharToValue(c byte) (uint32, bool) {
	v := base64Value[c]
	if v < 0 {
		return 0, false
	}
	return uint32(v), true
}

// ValueToChar returns the base64 character for a 6-bit value. The caller
// must ensure v < 64.
func ValueToChar(v uint32) byte {
	return Base64Alphabet[v]
}
