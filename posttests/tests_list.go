package posttests

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/data"
	"github.com/blogware/posts-contract-tests/framework"
)

// expectedPostKeys is the exact key set of a post on the wire.
var expectedPostKeys = []string{"id", "title", "author", "content", "created"}

func doListPostsTests(t *framework.T) {
	t.Run("returns an empty array when the store is empty", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)

		posts, status, err := sc.Client.ListPosts()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, posts)
	})

	t.Run("returns exactly as many entries as the store holds", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		seedPosts(t, sc, 5)

		posts, status, err := sc.Client.ListPosts()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)

		count, err := sc.Store.Count(context.Background())
		require.NoError(t, err)
		assert.Len(t, posts, count)
	})

	t.Run("each entry has exactly the expected keys", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		seedPosts(t, sc, 3)

		rawPosts, status, err := sc.Client.ListPostsRaw()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, rawPosts)
		for _, raw := range rawPosts {
			keys := make([]string, 0, len(raw))
			for k := range raw {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, expectedPostKeys, keys)
		}
	})

	t.Run("renders the author as a display string", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		stored := seedPosts(t, sc, 1)

		posts, _, err := sc.Client.ListPosts()
		require.NoError(t, err)
		require.Len(t, posts, 1)
		expected := stored[0].Author.FirstName + " " + stored[0].Author.LastName
		assert.Equal(t, expected, posts[0].Author)
	})

	t.Run("includes posts loaded from a seed file", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)

		seeds, err := data.LoadSeedPosts("seed-posts.yaml")
		require.NoError(t, err)
		require.NotEmpty(t, seeds)
		_, err = sc.Store.InsertMany(context.Background(), seeds)
		require.NoError(t, err)

		posts, _, err := sc.Client.ListPosts()
		require.NoError(t, err)
		require.Len(t, posts, len(seeds))

		titles := make([]string, 0, len(posts))
		for _, p := range posts {
			titles = append(titles, p.Title)
		}
		for _, seed := range seeds {
			assert.Contains(t, titles, seed.Title)
		}
	})
}
