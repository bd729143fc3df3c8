package wordbank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readcross/tinytrie/wordbank"
)

// valence3Stream is the reference trie holding "foo", "bar", "baz".
const valence3Stream = "BAAAAABAwIfboarzKTbjds1FDB"

// valence1Stream is a hand-packed single-word trie holding just "a".
const valence1Stream = "AsAAAAAAQEa5"

func TestSetIndex_And_Queries(t *testing.T) {
	wb := wordbank.New()

	require.NoError(t, wb.SetIndex(3, valence3Stream))
	require.NoError(t, wb.SetIndex(1, valence1Stream))

	assert.Equal(t, []int{1, 3}, wb.Valences())

	hit, err := wb.Test("foo")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = wb.Test("a")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = wb.Test("nope")
	require.NoError(t, err)
	assert.False(t, hit, "no trie installed for valence 4")

	results, err := wb.Search("ba*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bar", "baz"}, results)

	all, err := wb.AllWords(3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo", "bar", "baz"}, all)

	all1, err := wb.AllWords(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all1)

	none, err := wb.AllWords(7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchPrefix_CrossValence(t *testing.T) {
	wb := wordbank.New()
	require.NoError(t, wb.SetIndex(3, valence3Stream))
	require.NoError(t, wb.SetIndex(1, valence1Stream))

	// "ba" is only satisfiable by the valence-3 trie.
	results, err := wb.SearchPrefix("ba")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bar", "baz"}, results)

	hit, err := wb.TestPrefix("ba")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = wb.TestPrefix("z")
	require.NoError(t, err)
	assert.False(t, hit)

	// "a" is satisfiable only by the valence-1 trie (no valence-3 word
	// starts with "a").
	results, err = wb.SearchPrefix("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, results)
}

func TestSetIndexes_Concurrent(t *testing.T) {
	wb := wordbank.New()

	err := wb.SetIndexes(context.Background(), map[int]string{
		3: valence3Stream,
		1: valence1Stream,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, wb.Valences())

	all3, err := wb.AllWords(3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo", "bar", "baz"}, all3)
}

func TestSetIndex_PropagatesOpenError(t *testing.T) {
	wb := wordbank.New()
	err := wb.SetIndex(3, "not-a-valid-packed-trie-stream!!")
	assert.Error(t, err)
}

func TestWithMatchCap(t *testing.T) {
	wb := wordbank.New(wordbank.WithMatchCap(1))
	require.NoError(t, wb.SetIndex(3, valence3Stream))

	results, err := wb.Search("***")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
