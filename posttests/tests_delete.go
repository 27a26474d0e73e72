package posttests

import (
	"context"
	"errors"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/store"
)

func doDeletePostTests(t *framework.T) {
	t.Run("deletes an existing post", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		posts := seedPosts(t, sc, 3)
		victim := posts[1]

		status, err := sc.Client.DeletePost(victim.ID)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, status)

		_, err = sc.Store.FindByID(context.Background(), victim.ID)
		assert.True(t, errors.Is(err, store.ErrNotFound), "deleted post must be gone from the store")

		count, err := sc.Store.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, len(posts)-1, count)
	})

	t.Run("a second delete of the same id reports not-found", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		victim := seedPosts(t, sc, 1)[0]

		status, err := sc.Client.DeletePost(victim.ID)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, status)

		status, err = sc.Client.DeletePost(victim.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("returns not-found for an unknown id", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		seedPosts(t, sc, 1)

		status, err := sc.Client.DeletePost("5f8f8c44b54764421b7156c3")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
