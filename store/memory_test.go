package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/posts-contract-tests/model"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, "cassandra", "")
	assert.Error(t, err)
}

func TestMemoryStoreFindAllOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	older := model.Post{
		Title: "older", Content: "c",
		Author:  model.Author{FirstName: "A", LastName: "B"},
		Created: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.Title = "newer"
	newer.Created = older.Created.Add(time.Hour)

	_, err := s.Insert(ctx, newer)
	require.NoError(t, err)
	_, err = s.Insert(ctx, older)
	require.NoError(t, err)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "older", all[0].Title)
	assert.Equal(t, "newer", all[1].Title)
}

func TestMemoryStoreConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Insert(ctx, model.Post{
				Title: "t", Content: "c",
				Author: model.Author{FirstName: "A", LastName: "B"},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}

func TestPostUpdateApplyTo(t *testing.T) {
	p := model.Post{Title: "t", Content: "c"}

	PostUpdate{}.applyTo(&p)
	assert.Equal(t, "t", p.Title)
	assert.Equal(t, "c", p.Content)

	newTitle := "t2"
	PostUpdate{Title: &newTitle}.applyTo(&p)
	assert.Equal(t, "t2", p.Title)
	assert.Equal(t, "c", p.Content)
}
