// Package posttests contains the contract-test suite for the posts API. The
// tests drive the service over real HTTP and verify store truth through a
// direct store handle.
package posttests

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/data"
	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/model"
	"github.com/blogware/posts-contract-tests/store"
)

// SuiteContext is the shared state passed to every test in the suite.
type SuiteContext struct {
	Client  *APIClient
	Store   store.PostStore
	Factory *data.PostFactory
}

// RunPostsTestSuite runs the whole contract-test suite and returns the
// results. The store handle must point at the same data the service under
// test is using.
func RunPostsTestSuite(
	client *APIClient,
	postStore store.PostStore,
	seed int64,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	config := framework.Config{
		Filter:     filter,
		TestLogger: testLogger,
		Context: SuiteContext{
			Client:  client,
			Store:   postStore,
			Factory: data.NewPostFactory(seed),
		},
	}
	return framework.Run(config, func(t *framework.T) {
		t.Run("list", doListPostsTests)
		t.Run("create", doCreatePostTests)
		t.Run("update", doUpdatePostTests)
		t.Run("delete", doDeletePostTests)
	})
}

func suiteContext(t *framework.T) SuiteContext {
	return t.Context().(SuiteContext)
}

// resetStore gives each scenario a clean store. Scenarios never rely on data
// left behind by another scenario.
func resetStore(t *framework.T, sc SuiteContext) {
	require.NoError(t, sc.Store.DropAll(context.Background()))
}

// seedPosts inserts n fixture posts and returns them as stored, ids included.
func seedPosts(t *framework.T, sc SuiteContext, n int) []model.Post {
	ctx := context.Background()
	count, err := sc.Store.InsertMany(ctx, sc.Factory.MakePosts(n))
	require.NoError(t, err)
	require.Equal(t, n, count)
	stored, err := sc.Store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, n)
	return stored
}
