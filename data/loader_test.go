package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedPosts(t *testing.T) {
	posts, err := LoadSeedPosts("seed-posts.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, posts)

	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		assert.NotEmpty(t, p.Author.FirstName)
		assert.NotEmpty(t, p.Author.LastName)
		assert.False(t, p.Created.IsZero())
		assert.Empty(t, p.ID, "seed posts have no ids until inserted")
	}
}

func TestLoadSeedPostsMissingFile(t *testing.T) {
	_, err := LoadSeedPosts("no-such-file.yaml")
	assert.Error(t, err)
}
