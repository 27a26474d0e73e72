package posttests

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/apidef"
	"github.com/blogware/posts-contract-tests/framework"
)

const (
	updatedTitle   = "fofofofofofo"
	updatedContent = "this is some test content for the test."
)

func doUpdatePostTests(t *framework.T) {
	t.Run("updates title and content of an existing post", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		original := seedPosts(t, sc, 1)[0]

		title, content := updatedTitle, updatedContent
		status, err := sc.Client.UpdatePost(original.ID, apidef.UpdatePostParams{
			ID:      original.ID,
			Title:   &title,
			Content: &content,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, status)

		stored, err := sc.Store.FindByID(context.Background(), original.ID)
		require.NoError(t, err)
		assert.Equal(t, updatedTitle, stored.Title)
		assert.Equal(t, updatedContent, stored.Content)
		assert.Equal(t, original.Author, stored.Author, "author must not change on update")
		assert.True(t, original.Created.Equal(stored.Created), "created must not change on update")
	})

	t.Run("leaves omitted fields untouched", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		original := seedPosts(t, sc, 1)[0]

		title := updatedTitle
		status, err := sc.Client.UpdatePost(original.ID, apidef.UpdatePostParams{
			ID:    original.ID,
			Title: &title,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, status)

		stored, err := sc.Store.FindByID(context.Background(), original.ID)
		require.NoError(t, err)
		assert.Equal(t, updatedTitle, stored.Title)
		assert.Equal(t, original.Content, stored.Content)
	})

	t.Run("rejects a body id that does not match the path id", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		posts := seedPosts(t, sc, 2)

		title := updatedTitle
		status, err := sc.Client.UpdatePost(posts[0].ID, apidef.UpdatePostParams{
			ID:    posts[1].ID,
			Title: &title,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)

		stored, err := sc.Store.FindByID(context.Background(), posts[0].ID)
		require.NoError(t, err)
		assert.Equal(t, posts[0].Title, stored.Title, "a rejected update must not mutate anything")
	})

	t.Run("returns not-found for an unknown id", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		seedPosts(t, sc, 1)

		unknownID := "5f8f8c44b54764421b7156c3"
		title := updatedTitle
		status, err := sc.Client.UpdatePost(unknownID, apidef.UpdatePostParams{
			ID:    unknownID,
			Title: &title,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
