package posttests

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/apidef"
	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/service"
	"github.com/blogware/posts-contract-tests/store"
)

// startTestService runs the real service over HTTP on a memory store and
// returns a client pointed at it.
func startTestService(t *testing.T) (*APIClient, store.PostStore) {
	memStore := store.NewMemoryStore()
	server := httptest.NewServer(service.New(memStore, nil))
	t.Cleanup(server.Close)
	return NewAPIClient(server.URL, nil), memStore
}

// TestSuiteAgainstMemoryBackedService runs the entire contract-test suite
// in-process, which is also how CI exercises it without external stores.
func TestSuiteAgainstMemoryBackedService(t *testing.T) {
	client, memStore := startTestService(t)

	results := RunPostsTestSuite(client, memStore, 42, nil, nil)
	for _, failure := range results.Failures {
		for _, err := range failure.Errors {
			t.Errorf("[%s] %s", failure.TestID, err)
		}
	}
	assert.True(t, results.OK())
	assert.NotEmpty(t, results.Tests)
}

func TestSuiteHonorsFilter(t *testing.T) {
	client, memStore := startTestService(t)

	filter := func(id framework.TestID) bool { return id[0] == "delete" }
	results := RunPostsTestSuite(client, memStore, 42, filter, nil)
	assert.True(t, results.OK())
	for _, r := range results.Tests {
		if len(r.TestID) > 0 {
			assert.Equal(t, "delete", r.TestID[0])
		}
	}
}

func TestAPIClientCreateAndList(t *testing.T) {
	client, _ := startTestService(t)

	created, status, err := client.CreatePost(apidef.NewPostParams{
		Title:   "client test",
		Content: "content",
		Author:  apidef.AuthorParams{FirstName: "Jane", LastName: "Doe"},
	})
	require.NoError(t, err)
	require.Equal(t, 201, status)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Jane Doe", created.Author)

	posts, status, err := client.ListPosts()
	require.NoError(t, err)
	require.Equal(t, 200, status)
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
}

func TestAPIClientWaitForStatus(t *testing.T) {
	client, _ := startTestService(t)

	status, err := client.WaitForStatus(0)
	require.NoError(t, err)
	assert.Equal(t, service.ServiceName, status.Name)
}
