package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/blogware/posts-contract-tests/model"
)

const redisPostsKey = "posts"

// RedisStore keeps every post as a JSON document in a single Redis hash,
// keyed by post id.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, dsn string) (*RedisStore, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL %q: %w", dsn, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis at %q is not responding: %w", opts.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Insert(ctx context.Context, post model.Post) (model.Post, error) {
	post = prepareForInsert(post, uuid.NewString)
	data, err := encodePost(post)
	if err != nil {
		return model.Post{}, err
	}
	if err := s.client.HSet(ctx, redisPostsKey, post.ID, data).Err(); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (s *RedisStore) InsertMany(ctx context.Context, posts []model.Post) (int, error) {
	for _, p := range posts {
		if _, err := s.Insert(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(posts), nil
}

func (s *RedisStore) FindAll(ctx context.Context) ([]model.Post, error) {
	docs, err := s.client.HGetAll(ctx, redisPostsKey).Result()
	if err != nil {
		return nil, err
	}
	ret := make([]model.Post, 0, len(docs))
	for _, data := range docs {
		p, err := decodePost([]byte(data))
		if err != nil {
			return nil, err
		}
		ret = append(ret, p)
	}
	sortPosts(ret)
	return ret, nil
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (model.Post, error) {
	data, err := s.client.HGet(ctx, redisPostsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, err
	}
	return decodePost([]byte(data))
}

func (s *RedisStore) FindOne(ctx context.Context) (model.Post, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return model.Post{}, err
	}
	if len(all) == 0 {
		return model.Post{}, ErrNotFound
	}
	return all[0], nil
}

func (s *RedisStore) UpdateByID(ctx context.Context, id string, update PostUpdate) error {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	update.applyTo(&p)
	data, err := encodePost(p)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, redisPostsKey, id, data).Err()
}

func (s *RedisStore) DeleteByID(ctx context.Context, id string) error {
	removed, err := s.client.HDel(ctx, redisPostsKey, id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, redisPostsKey).Result()
	return int(n), err
}

func (s *RedisStore) DropAll(ctx context.Context) error {
	return s.client.Del(ctx, redisPostsKey).Err()
}

func (s *RedisStore) Close(context.Context) error {
	return s.client.Close()
}
