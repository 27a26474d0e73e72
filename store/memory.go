package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/blogware/posts-contract-tests/model"
)

// MemoryStore keeps all posts in an in-process map. It is the default backend
// for local runs and for the handler unit tests.
type MemoryStore struct {
	posts map[string]model.Post
	lock  sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{posts: make(map[string]model.Post)}
}

func (s *MemoryStore) Insert(_ context.Context, post model.Post) (model.Post, error) {
	post = prepareForInsert(post, uuid.NewString)
	s.lock.Lock()
	s.posts[post.ID] = post
	s.lock.Unlock()
	return post, nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, posts []model.Post) (int, error) {
	for _, p := range posts {
		if _, err := s.Insert(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(posts), nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]model.Post, error) {
	s.lock.RLock()
	ret := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		ret = append(ret, p)
	}
	s.lock.RUnlock()
	sortPosts(ret)
	return ret, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (model.Post, error) {
	s.lock.RLock()
	p, ok := s.posts[id]
	s.lock.RUnlock()
	if !ok {
		return model.Post{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) FindOne(ctx context.Context) (model.Post, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return model.Post{}, err
	}
	if len(all) == 0 {
		return model.Post{}, ErrNotFound
	}
	return all[0], nil
}

func (s *MemoryStore) UpdateByID(_ context.Context, id string, update PostUpdate) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	update.applyTo(&p)
	s.posts[id] = p
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.posts), nil
}

func (s *MemoryStore) DropAll(_ context.Context) error {
	s.lock.Lock()
	s.posts = make(map[string]model.Post)
	s.lock.Unlock()
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// sortPosts gives FindAll a stable order (oldest first, id as tiebreaker)
// even though the contract leaves the order unspecified.
func sortPosts(posts []model.Post) {
	slices.SortFunc(posts, func(a, b model.Post) int {
		if !a.Created.Equal(b.Created) {
			if a.Created.Before(b.Created) {
				return -1
			}
			return 1
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}
