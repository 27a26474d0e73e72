package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, s string) TestIDPattern {
	p, err := ParseTestIDPattern(s)
	require.NoError(t, err)
	return p
}

func TestParseTestIDPattern(t *testing.T) {
	p := mustPattern(t, "crud/upd.*")
	assert.Len(t, p, 2)

	_, err := ParseTestIDPattern("bad[regex")
	assert.Error(t, err)
}

func TestTestIDPatternMatch(t *testing.T) {
	p := mustPattern(t, "crud/update")

	assert.True(t, p.Match(TestID{"crud", "update"}, false))
	assert.True(t, p.Match(TestID{"crud", "update", "child"}, false))
	assert.False(t, p.Match(TestID{"crud", "delete"}, false))

	// a shorter id only matches when parents are included
	assert.False(t, p.Match(TestID{"crud"}, false))
	assert.True(t, p.Match(TestID{"crud"}, true))
}

func TestRegexFiltersMatch(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.Match(TestID{"anything"}))

	require.NoError(t, f.MustMatch.Set("create"))
	assert.True(t, f.Match(TestID{"create", "child"}))
	assert.False(t, f.Match(TestID{"delete"}))

	require.NoError(t, f.MustNotMatch.Set("create/slow"))
	assert.True(t, f.Match(TestID{"create", "fast"}))
	assert.False(t, f.Match(TestID{"create", "slow"}))
}

func TestTestIDPlus(t *testing.T) {
	id := TestID{"a"}
	child := id.Plus("b")
	assert.Equal(t, "a/b", child.String())
	assert.Equal(t, "a", id.String(), "Plus must not mutate the receiver")
}
