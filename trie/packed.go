package trie

import (
	"context"
	"fmt"

	"github.com/readcross/tinytrie/bitio"
)

// Wildcard is the pattern character that matches any single alphabet
// character (never TERMINAL itself, except implicitly at the end of a
// prefix query).
const Wildcard = '*'

// PackedTrie is an immutable, lazily-traversed dictionary decoded from a
// base64 bit stream. It owns the decoded body and both alphabet maps;
// nothing here mutates after Open returns. Multiple goroutines may call
// any method concurrently.
type PackedTrie struct {
	offset int32
	body   []bool

	table   map[byte]uint32
	inverse map[uint32]byte

	wordWidth    int
	charWidth    int
	pointerWidth int
	charShift    int
	pointerMask  uint32
	charMask     uint32
}

// Open decodes a packed-trie base64 stream. The stream is not retained;
// only the decoded header fields, body bit buffer, and alphabet maps are.
func Open(stream string) (*PackedTrie, error) {
	return parseHeader(stream)
}

// Test reports whether any stored word matches pattern exactly.
func (t *PackedTrie) Test(pattern string) (bool, error) {
	matches, err := t.searchCore(context.Background(), pattern, false, true, 0)
	return len(matches) > 0, err
}

// TestPrefix reports whether any stored word begins with pattern.
func (t *PackedTrie) TestPrefix(pattern string) (bool, error) {
	matches, err := t.searchCore(context.Background(), pattern, true, true, 0)
	return len(matches) > 0, err
}

// Search returns every stored word matching pattern exactly, in the order
// the breadth-first walk discovers them.
func (t *PackedTrie) Search(pattern string) ([]string, error) {
	return t.searchCore(context.Background(), pattern, false, false, 0)
}

// SearchPrefix returns every stored word beginning with pattern.
func (t *PackedTrie) SearchPrefix(pattern string) ([]string, error) {
	return t.searchCore(context.Background(), pattern, true, false, 0)
}

// SearchCtx is the fully-parameterized query operation: it honors
// cancellation via ctx (checked at each BFS frame dequeue) and stops once
// maxMatches results have been collected (0 means unbounded). Neither
// behavior affects matching correctness; both exist so a caller can bound
// a pathological wildcard query.
func (t *PackedTrie) SearchCtx(ctx context.Context, pattern string, prefix bool, maxMatches int) ([]string, error) {
	return t.searchCore(ctx, pattern, prefix, false, maxMatches)
}

// searchFrame is one entry in the BFS queue: a pointer into the packed
// body, the string matched so far to reach it, and its depth.
type searchFrame struct {
	pointer int
	memo    []byte
	depth   int
}

// searchCore runs the breadth-first traversal that backs every query
// operation. first stops at the first discovered match (used by
// Test/TestPrefix); prefix relaxes the length requirement and treats
// positions beyond the pattern as implicit wildcards until a TERMINAL is
// found.
//
// Same FIFO queue discipline and the same wildcard/prefix token
// resolution as the reference engine's BFS walk. Matches are appended in
// discovery order.
// The packed-word field extraction (shift+mask out sub-fields of one
// read word) is the same shift-and-mask idiom a byte-oriented decoder
// uses to split a descriptor word, applied here to trie edges.
func (t *PackedTrie) searchCore(ctx context.Context, pattern string, prefix, first bool, maxMatches int) ([]string, error) {
	if err := t.checkPatternAlphabet(pattern); err != nil {
		return nil, nil
	}

	matches := make([]string, 0)
	queue := make([]searchFrame, 0, 16)
	queue = append(queue, searchFrame{pointer: 0, memo: nil, depth: 0})

	patternLen := len(pattern)

	for len(queue) > 0 {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return matches, ctx.Err()
			default:
			}
		}

		node := queue[0]
		queue = queue[1:]

		isLast := node.depth >= patternLen
		var token byte
		if isLast {
			token = terminal
		} else {
			token = pattern[node.depth]
		}
		isWild := token == Wildcard || (prefix && isLast)

		var tokIdx uint32
		if !isWild {
			idx, ok := t.table[token]
			if !ok {
				continue
			}
			tokIdx = idx
		}

		wordPtr := node.pointer
		for {
			charIdx, ptr, last, err := t.readWord(wordPtr)
			if err != nil {
				return nil, &QueryError{Pattern: pattern, Detail: err.Error()}
			}

			if isWild || charIdx == tokIdx {
				newChar, ok := t.inverse[charIdx]
				if !ok {
					return nil, &QueryError{
						Pattern: pattern,
						Detail:  fmt.Sprintf("char index %d at word %d is outside the alphabet", charIdx, wordPtr),
					}
				}

				if isLast && newChar == terminal {
					match := make([]byte, len(node.memo))
					copy(match, node.memo)
					matches = append(matches, string(match))
					if first {
						return matches, nil
					}
					if maxMatches > 0 && len(matches) >= maxMatches {
						return matches, nil
					}
					if !isWild {
						break
					}
				}

				if newChar != terminal {
					nextPtr := wordPtr + int(t.offset) + int(ptr)
					if nextPtr < 0 || !t.wordInBounds(nextPtr) {
						return nil, &QueryError{
							Pattern: pattern,
							Detail:  fmt.Sprintf("child pointer %d from word %d is out of range", nextPtr, wordPtr),
						}
					}
					newMemo := make([]byte, len(node.memo)+1)
					copy(newMemo, node.memo)
					newMemo[len(node.memo)] = newChar
					queue = append(queue, searchFrame{pointer: nextPtr, memo: newMemo, depth: node.depth + 1})
				}
			}

			if last == 1 {
				break
			}
			wordPtr++
			if !t.wordInBounds(wordPtr) {
				return nil, &QueryError{Pattern: pattern, Detail: fmt.Sprintf("block starting before word %d runs past end of body", wordPtr)}
			}
		}
	}

	return matches, nil
}

// checkPatternAlphabet implements the Open Question 4 optimization: if
// any literal (non-wildcard) character of the pattern is outside the
// trie's alphabet, no match is possible and the caller should get an
// empty result without any BFS at all.
func (t *PackedTrie) checkPatternAlphabet(pattern string) error {
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == Wildcard {
			continue
		}
		if _, ok := t.table[c]; !ok {
			return ErrInvalidPattern
		}
	}
	return nil
}

// wordInBounds reports whether the word at wordPtr lies entirely within
// the decoded body.
func (t *PackedTrie) wordInBounds(wordPtr int) bool {
	startBit := wordPtr * t.wordWidth
	return wordPtr >= 0 && startBit+t.wordWidth <= len(t.body)
}

// readWord reads the packed word at wordPtr and splits it into its
// character index, child pointer, and last-edge bit.
func (t *PackedTrie) readWord(wordPtr int) (charIdx, ptr uint32, last uint32, err error) {
	if !t.wordInBounds(wordPtr) {
		return 0, 0, 0, fmt.Errorf("word index %d out of range", wordPtr)
	}
	word, err := bitio.ReadFieldBits(t.body, wordPtr*t.wordWidth, t.wordWidth)
	if err != nil {
		return 0, 0, 0, err
	}
	charIdx = (word >> uint(t.charShift)) & t.charMask
	ptr = (word >> 1) & t.pointerMask
	last = word & 1
	return charIdx, ptr, last, nil
}
