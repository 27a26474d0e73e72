package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFactoryIsDeterministic(t *testing.T) {
	a := NewPostFactory(42)
	b := NewPostFactory(42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.MakePost(), b.MakePost())
	}
}

func TestPostFactorySeedsDiffer(t *testing.T) {
	a := NewPostFactory(1)
	b := NewPostFactory(2)

	same := true
	for i := 0; i < 10; i++ {
		if a.MakePost() != b.MakePost() {
			same = false
		}
	}
	assert.False(t, same, "different seeds should produce different sequences")
}

func TestPostFactoryMakesValidPosts(t *testing.T) {
	f := NewPostFactory(7)

	titles := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p := f.MakePost()
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		assert.NotEmpty(t, p.Author.FirstName)
		assert.NotEmpty(t, p.Author.LastName)
		assert.Empty(t, p.ID, "the store owns id assignment")
		assert.False(t, titles[p.Title], "titles should be unique within a factory")
		titles[p.Title] = true
	}
}

func TestMakePosts(t *testing.T) {
	f := NewPostFactory(7)
	posts := f.MakePosts(5)
	assert.Len(t, posts, 5)
}

func TestMakeNewPostParams(t *testing.T) {
	f := NewPostFactory(7)
	params := f.MakeNewPostParams()
	require.NoError(t, params.Validate())
}
