package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/apidef"
	"github.com/blogware/posts-contract-tests/model"
	"github.com/blogware/posts-contract-tests/store"
)

func newTestService() (*PostsService, *store.MemoryStore) {
	memStore := store.NewMemoryStore()
	return New(memStore, nil), memStore
}

func doRequest(svc *PostsService, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	svc.ServeHTTP(rr, req)
	return rr
}

func seedPost(t *testing.T, memStore *store.MemoryStore) model.Post {
	created, err := memStore.Insert(context.Background(), model.Post{
		Title:   "seeded title",
		Content: "seeded content",
		Author:  model.Author{FirstName: "Jane", LastName: "Doe"},
	})
	require.NoError(t, err)
	return created
}

func validCreateBody() []byte {
	data, _ := json.Marshal(apidef.NewPostParams{
		Title:   "a new post",
		Content: "some content",
		Author:  apidef.AuthorParams{FirstName: "John", LastName: "Smith"},
	})
	return data
}

func TestStatusResource(t *testing.T) {
	svc, _ := newTestService()

	rr := doRequest(svc, "GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var status apidef.ServiceStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, ServiceName, status.Name)
	assert.NotEmpty(t, status.Capabilities)
}

func TestShutdownResource(t *testing.T) {
	svc, _ := newTestService()

	select {
	case <-svc.ShutdownRequested():
		t.Fatal("shutdown channel should not be closed yet")
	default:
	}

	rr := doRequest(svc, "DELETE", "/", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	select {
	case <-svc.ShutdownRequested():
	default:
		t.Fatal("shutdown channel should be closed")
	}

	// a second shutdown request is harmless
	rr = doRequest(svc, "DELETE", "/", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestListPostsEmpty(t *testing.T) {
	svc, _ := newTestService()

	rr := doRequest(svc, "GET", "/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestListPostsFlattensAuthor(t *testing.T) {
	svc, memStore := newTestService()
	seedPost(t, memStore)

	rr := doRequest(svc, "GET", "/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var posts []apidef.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Jane Doe", posts[0].Author)
}

func TestListPostsKeySet(t *testing.T) {
	svc, memStore := newTestService()
	seedPost(t, memStore)

	rr := doRequest(svc, "GET", "/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Len(t, raw[0], 5)
	for _, key := range []string{"id", "title", "author", "content", "created"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestCreatePost(t *testing.T) {
	svc, memStore := newTestService()

	rr := doRequest(svc, "POST", "/posts", validCreateBody())
	require.Equal(t, http.StatusCreated, rr.Code)

	var created apidef.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a new post", created.Title)
	assert.Equal(t, "John Smith", created.Author)
	assert.False(t, created.Created.IsZero())

	stored, err := memStore.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", stored.Author.FirstName)
	assert.Equal(t, "Smith", stored.Author.LastName)
}

func TestCreatePostValidation(t *testing.T) {
	bodies := map[string]string{
		"missing title":     `{"content":"c","author":{"firstName":"A","lastName":"B"}}`,
		"missing content":   `{"title":"t","author":{"firstName":"A","lastName":"B"}}`,
		"missing author":    `{"title":"t","content":"c"}`,
		"missing firstName": `{"title":"t","content":"c","author":{"lastName":"B"}}`,
		"missing lastName":  `{"title":"t","content":"c","author":{"firstName":"A"}}`,
		"blank title":       `{"title":"  ","content":"c","author":{"firstName":"A","lastName":"B"}}`,
		"not json":          `{nope`,
	}
	for name, body := range bodies {
		body := body
		t.Run(name, func(t *testing.T) {
			svc, memStore := newTestService()

			rr := doRequest(svc, "POST", "/posts", []byte(body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			count, err := memStore.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count, "a rejected create must not store anything")
		})
	}
}

func TestUpdatePost(t *testing.T) {
	svc, memStore := newTestService()
	original := seedPost(t, memStore)

	body := fmt.Sprintf(`{"id":%q,"title":"new title","content":"new content"}`, original.ID)
	rr := doRequest(svc, "PUT", "/posts/"+original.ID, []byte(body))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	stored, err := memStore.FindByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", stored.Title)
	assert.Equal(t, "new content", stored.Content)
	assert.Equal(t, original.Author, stored.Author)
	assert.True(t, original.Created.Equal(stored.Created))
}

func TestUpdatePostPartial(t *testing.T) {
	svc, memStore := newTestService()
	original := seedPost(t, memStore)

	body := fmt.Sprintf(`{"id":%q,"title":"only the title"}`, original.ID)
	rr := doRequest(svc, "PUT", "/posts/"+original.ID, []byte(body))
	require.Equal(t, http.StatusNoContent, rr.Code)

	stored, err := memStore.FindByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "only the title", stored.Title)
	assert.Equal(t, original.Content, stored.Content)
}

func TestUpdatePostIDMismatch(t *testing.T) {
	svc, memStore := newTestService()
	original := seedPost(t, memStore)

	body := `{"id":"some-other-id","title":"new title"}`
	rr := doRequest(svc, "PUT", "/posts/"+original.ID, []byte(body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	stored, err := memStore.FindByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Title, stored.Title, "a rejected update must not mutate anything")
}

func TestUpdatePostUnknownID(t *testing.T) {
	svc, _ := newTestService()

	body := `{"id":"no-such-id","title":"new title"}`
	rr := doRequest(svc, "PUT", "/posts/no-such-id", []byte(body))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdatePostMalformedBody(t *testing.T) {
	svc, memStore := newTestService()
	original := seedPost(t, memStore)

	rr := doRequest(svc, "PUT", "/posts/"+original.ID, []byte("{nope"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeletePost(t *testing.T) {
	svc, memStore := newTestService()
	original := seedPost(t, memStore)

	rr := doRequest(svc, "DELETE", "/posts/"+original.ID, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	_, err := memStore.FindByID(context.Background(), original.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// the second delete surfaces not-found
	rr = doRequest(svc, "DELETE", "/posts/"+original.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeletePostUnknownID(t *testing.T) {
	svc, _ := newTestService()

	rr := doRequest(svc, "DELETE", "/posts/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
