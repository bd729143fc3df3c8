// Package wordbank groups several PackedTrie instances by word length
// ("valence") and dispatches pattern queries to whichever trie (or set of
// tries, for prefix queries) could possibly answer them.
package wordbank

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/readcross/tinytrie/trie"
)

// index is one installed trie plus its eagerly-computed all-words cache,
// the Go equivalent of the Rust original's WordBankIndex.
type index struct {
	valence  int
	trie     *trie.PackedTrie
	allWords []string
}

// Option configures a WordBank at construction time.
type Option func(*WordBank)

// WithLogger injects a structured logger. The default is logr.Discard().
func WithLogger(log logr.Logger) Option {
	return func(wb *WordBank) { wb.log = log }
}

// WithMatchCap bounds how many results Search/SearchPrefix will collect
// per installed trie before returning, guarding against a pathological
// wildcard query enumerating an entire valence. 0 (the default) means
// unbounded.
func WithMatchCap(n int) Option {
	return func(wb *WordBank) { wb.matchCap = n }
}

// WithConcurrency bounds how many tries SetIndexes parses at once. 0 (the
// default) means unbounded (one goroutine per stream).
func WithConcurrency(n int) Option {
	return func(wb *WordBank) { wb.concurrency = n }
}

// WordBank indexes PackedTrie instances by valence. It is safe for
// concurrent use: installs take a write lock, queries take a read lock,
// and an installed PackedTrie is never mutated once set.
type WordBank struct {
	mu      sync.RWMutex
	indexes map[int]*index

	log         logr.Logger
	matchCap    int
	concurrency int
}

// New creates an empty WordBank.
func New(opts ...Option) *WordBank {
	wb := &WordBank{
		indexes: make(map[int]*index),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(wb)
	}
	return wb
}

// SetIndex installs (or replaces) the trie for a given valence. The
// trie's complete word listing is computed eagerly via search("*"*valence)
// and cached.
func (wb *WordBank) SetIndex(valence int, stream string) error {
	t, err := trie.Open(stream)
	if err != nil {
		return fmt.Errorf("wordbank: opening index for valence %d: %w", valence, err)
	}

	all, err := t.Search(wildcardPattern(valence))
	if err != nil {
		return fmt.Errorf("wordbank: caching all-words for valence %d: %w", valence, err)
	}

	wb.mu.Lock()
	wb.indexes[valence] = &index{valence: valence, trie: t, allWords: all}
	wb.mu.Unlock()

	wb.log.V(1).Info("installed word index", "valence", valence, "wordCount", len(all))
	return nil
}

// SetIndexes installs several valence -> stream pairs concurrently. Since
// each valence's index is independent, installation order never affects
// the resulting WordBank state. The first error encountered cancels the
// remaining installs and is returned; ctx cancellation does the same.
func (wb *WordBank) SetIndexes(ctx context.Context, streams map[int]string) error {
	g, gctx := errgroup.WithContext(ctx)
	if wb.concurrency > 0 {
		g.SetLimit(wb.concurrency)
	}

	for valence, stream := range streams {
		valence, stream := valence, stream
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return wb.SetIndex(valence, stream)
		})
	}

	if err := g.Wait(); err != nil {
		wb.log.Error(err, "bulk index install failed")
		return err
	}
	return nil
}

// Test reports whether any installed trie holds a word matching pattern
// exactly. A pattern whose length has no installed trie is not an error:
// it simply cannot match anything.
func (wb *WordBank) Test(pattern string) (bool, error) {
	idx, ok := wb.lookup(len(pattern))
	if !ok {
		return false, nil
	}
	return idx.trie.Test(pattern)
}

// TestPrefix reports whether any installed trie holds a word beginning
// with pattern.
func (wb *WordBank) TestPrefix(pattern string) (bool, error) {
	wb.mu.RLock()
	valences := wb.valencesAtLeastLocked(len(pattern))
	wb.mu.RUnlock()

	for _, v := range valences {
		idx, ok := wb.lookup(v)
		if !ok {
			continue
		}
		hit, err := idx.trie.TestPrefix(pattern)
		if err != nil {
			return false, fmt.Errorf("wordbank: valence %d: %w", v, err)
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

// Search returns every word matching pattern exactly, from the single
// trie whose valence equals len(pattern) (there is only ever one, since
// search results are fixed-length). The per-trie match cap configured via
// WithMatchCap applies.
func (wb *WordBank) Search(pattern string) ([]string, error) {
	idx, ok := wb.lookup(len(pattern))
	if !ok {
		return nil, nil
	}
	return idx.trie.SearchCtx(context.Background(), pattern, false, wb.matchCap)
}

// SearchPrefix returns every word beginning with pattern, merged across
// every installed trie whose valence is at least len(pattern) — a prefix
// can be completed by a word of any length >= its own.
func (wb *WordBank) SearchPrefix(pattern string) ([]string, error) {
	wb.mu.RLock()
	valences := wb.valencesAtLeastLocked(len(pattern))
	wb.mu.RUnlock()

	var out []string
	for _, v := range valences {
		idx, ok := wb.lookup(v)
		if !ok {
			continue
		}
		results, err := idx.trie.SearchCtx(context.Background(), pattern, true, wb.matchCap)
		if err != nil {
			return out, fmt.Errorf("wordbank: valence %d: %w", v, err)
		}
		out = append(out, results...)
	}
	return out, nil
}

// AllWords returns the cached listing of every word of the given
// valence, or nil if no trie is installed for it.
func (wb *WordBank) AllWords(valence int) ([]string, error) {
	idx, ok := wb.lookup(valence)
	if !ok {
		return nil, nil
	}
	out := make([]string, len(idx.allWords))
	copy(out, idx.allWords)
	return out, nil
}

// Valences returns the sorted list of word lengths currently installed.
func (wb *WordBank) Valences() []int {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	out := make([]int, 0, len(wb.indexes))
	for v := range wb.indexes {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func (wb *WordBank) lookup(valence int) (*index, bool) {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	idx, ok := wb.indexes[valence]
	return idx, ok
}

// valencesAtLeastLocked returns the sorted list of installed valences >=
// min. Caller must hold wb.mu (read or write).
func (wb *WordBank) valencesAtLeastLocked(min int) []int {
	out := make([]int, 0, len(wb.indexes))
	for v := range wb.indexes {
		if v >= min {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func wildcardPattern(valence int) string {
	b := make([]byte, valence)
	for i := range b {
		b[i] = trie.Wildcard
	}
	return string(b)
}
