package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	consul "github.com/hashicorp/consul/api"

	"github.com/blogware/posts-contract-tests/model"
)

const consulKeyPrefix = "posts/"

// ConsulStore keeps each post as a JSON document under the posts/ KV tree.
type ConsulStore struct {
	kv *consul.KV
}

// NewConsulStore connects to the Consul agent. A non-empty address overrides
// the default agent address.
func NewConsulStore(address string) (*ConsulStore, error) {
	config := consul.DefaultConfig()
	if address != "" {
		config.Address = address
	}
	client, err := consul.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client for %q: %w", config.Address, err)
	}
	return &ConsulStore{kv: client.KV()}, nil
}

func (s *ConsulStore) Insert(ctx context.Context, post model.Post) (model.Post, error) {
	post = prepareForInsert(post, uuid.NewString)
	data, err := encodePost(post)
	if err != nil {
		return model.Post{}, err
	}
	opts := (&consul.WriteOptions{}).WithContext(ctx)
	_, err = s.kv.Put(&consul.KVPair{Key: consulKeyPrefix + post.ID, Value: data}, opts)
	if err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (s *ConsulStore) InsertMany(ctx context.Context, posts []model.Post) (int, error) {
	for _, p := range posts {
		if _, err := s.Insert(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(posts), nil
}

func (s *ConsulStore) FindAll(ctx context.Context) ([]model.Post, error) {
	opts := (&consul.QueryOptions{}).WithContext(ctx)
	pairs, _, err := s.kv.List(consulKeyPrefix, opts)
	if err != nil {
		return nil, err
	}
	ret := make([]model.Post, 0, len(pairs))
	for _, pair := range pairs {
		p, err := decodePost(pair.Value)
		if err != nil {
			return nil, err
		}
		ret = append(ret, p)
	}
	sortPosts(ret)
	return ret, nil
}

func (s *ConsulStore) FindByID(ctx context.Context, id string) (model.Post, error) {
	opts := (&consul.QueryOptions{}).WithContext(ctx)
	pair, _, err := s.kv.Get(consulKeyPrefix+id, opts)
	if err != nil {
		return model.Post{}, err
	}
	if pair == nil {
		return model.Post{}, ErrNotFound
	}
	return decodePost(pair.Value)
}

func (s *ConsulStore) FindOne(ctx context.Context) (model.Post, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return model.Post{}, err
	}
	if len(all) == 0 {
		return model.Post{}, ErrNotFound
	}
	return all[0], nil
}

func (s *ConsulStore) UpdateByID(ctx context.Context, id string, update PostUpdate) error {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	update.applyTo(&p)
	data, err := encodePost(p)
	if err != nil {
		return err
	}
	opts := (&consul.WriteOptions{}).WithContext(ctx)
	_, err = s.kv.Put(&consul.KVPair{Key: consulKeyPrefix + id, Value: data}, opts)
	return err
}

func (s *ConsulStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	opts := (&consul.WriteOptions{}).WithContext(ctx)
	_, err := s.kv.Delete(consulKeyPrefix+id, opts)
	return err
}

func (s *ConsulStore) Count(ctx context.Context) (int, error) {
	opts := (&consul.QueryOptions{}).WithContext(ctx)
	keys, _, err := s.kv.Keys(consulKeyPrefix, "", opts)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keys {
		if strings.HasPrefix(k, consulKeyPrefix) && k != consulKeyPrefix {
			n++
		}
	}
	return n, nil
}

func (s *ConsulStore) DropAll(ctx context.Context) error {
	opts := (&consul.WriteOptions{}).WithContext(ctx)
	_, err := s.kv.DeleteTree(consulKeyPrefix, opts)
	return err
}

func (s *ConsulStore) Close(context.Context) error { return nil }
