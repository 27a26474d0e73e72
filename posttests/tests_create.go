package posttests

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/framework"
)

func doCreatePostTests(t *framework.T) {
	t.Run("creates a post and echoes it back", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		params := sc.Factory.MakeNewPostParams()

		created, status, err := sc.Client.CreatePost(params)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, status)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, params.Title, created.Title)
		assert.Equal(t, params.Content, created.Content)
		assert.Equal(t, params.Author.FirstName+" "+params.Author.LastName, created.Author)
	})

	t.Run("the returned id resolves to the stored record", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		params := sc.Factory.MakeNewPostParams()

		created, status, err := sc.Client.CreatePost(params)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, status)

		stored, err := sc.Store.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, params.Title, stored.Title)
		assert.Equal(t, params.Content, stored.Content)
		assert.Equal(t, params.Author.FirstName, stored.Author.FirstName)
		assert.Equal(t, params.Author.LastName, stored.Author.LastName)
	})

	t.Run("defaults created to the time of creation", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)
		before := time.Now().Add(-time.Minute)

		created, status, err := sc.Client.CreatePost(sc.Factory.MakeNewPostParams())
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, status)

		assert.False(t, created.Created.IsZero())
		assert.True(t, created.Created.After(before))
		assert.True(t, created.Created.Before(time.Now().Add(time.Minute)))
	})

	t.Run("rejects a body with a missing required field", func(t *framework.T) {
		fields := map[string]func(body map[string]interface{}){
			"title":            func(b map[string]interface{}) { delete(b, "title") },
			"content":          func(b map[string]interface{}) { delete(b, "content") },
			"author.firstName": func(b map[string]interface{}) { delete(b["author"].(map[string]interface{}), "firstName") },
			"author.lastName":  func(b map[string]interface{}) { delete(b["author"].(map[string]interface{}), "lastName") },
		}
		for field, removeField := range fields {
			removeField := removeField
			t.Run(field, func(t *framework.T) {
				sc := suiteContext(t)
				resetStore(t, sc)
				params := sc.Factory.MakeNewPostParams()

				body := map[string]interface{}{
					"title":   params.Title,
					"content": params.Content,
					"author": map[string]interface{}{
						"firstName": params.Author.FirstName,
						"lastName":  params.Author.LastName,
					},
				}
				removeField(body)
				data, err := json.Marshal(body)
				require.NoError(t, err)

				status, err := sc.Client.CreatePostRaw(data)
				require.NoError(t, err)
				assert.Equal(t, http.StatusBadRequest, status)

				count, err := sc.Store.Count(context.Background())
				require.NoError(t, err)
				assert.Zero(t, count, "a rejected create must not store anything")
			})
		}
	})

	t.Run("rejects a body that is not valid JSON", func(t *framework.T) {
		sc := suiteContext(t)
		resetStore(t, sc)

		status, err := sc.Client.CreatePostRaw([]byte("{not json"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
