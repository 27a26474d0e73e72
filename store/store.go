// Package store provides the persistence abstraction for blog posts, with
// interchangeable backends. The memory backend is the default; the others
// exist so the contract tests can run against a real document store.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blogware/posts-contract-tests/model"
)

// ErrNotFound is returned by any operation that addresses a post id with no
// corresponding record. Callers translate it into their own not-found
// handling; it is never wrapped in additional context by the store itself.
var ErrNotFound = errors.New("post not found")

// PostUpdate is a partial update. Nil fields are left untouched. Author and
// Created can never be changed after creation.
type PostUpdate struct {
	Title   *string
	Content *string
}

func (u PostUpdate) applyTo(p *model.Post) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
}

// PostStore is the persistence contract. Implementations assign ids at
// insertion time and own them exclusively; an id passed in on an inserted
// post is ignored.
type PostStore interface {
	// Insert creates a single post and returns it with its assigned id.
	Insert(ctx context.Context, post model.Post) (model.Post, error)

	// InsertMany bulk-creates posts and returns how many were created. This is
	// a fixture-seeding operation, not reachable from the public API.
	InsertMany(ctx context.Context, posts []model.Post) (int, error)

	// FindAll returns every post. The order is unspecified but is stable
	// within a single read.
	FindAll(ctx context.Context) ([]model.Post, error)

	// FindByID returns the post with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (model.Post, error)

	// FindOne returns an arbitrary single post, or ErrNotFound if the store
	// is empty.
	FindOne(ctx context.Context) (model.Post, error)

	// UpdateByID applies a partial update, or returns ErrNotFound.
	UpdateByID(ctx context.Context, id string, update PostUpdate) error

	// DeleteByID removes the post with the given id, or returns ErrNotFound.
	DeleteByID(ctx context.Context, id string) error

	// Count returns the total number of posts.
	Count(ctx context.Context) (int, error)

	// DropAll wipes the store. Used for test isolation between scenarios.
	DropAll(ctx context.Context) error

	// Close releases any underlying connections.
	Close(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendConsul   = "consul"
)

// Open creates a PostStore for the named backend. The meaning of dsn depends
// on the backend: a mongodb:// URI, a redis:// URL, a DynamoDB endpoint
// override (blank for the real service), or a Consul address. The memory
// backend ignores it.
func Open(ctx context.Context, backend, dsn string) (PostStore, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendMongo:
		return NewMongoStore(ctx, dsn, defaultMongoDatabase)
	case BackendRedis:
		return NewRedisStore(ctx, dsn)
	case BackendDynamoDB:
		return NewDynamoDBStore(dsn)
	case BackendConsul:
		return NewConsulStore(dsn)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// prepareForInsert normalizes a post before it is written: the store assigns
// the id, and Created defaults to the current time if the caller did not
// supply one.
func prepareForInsert(p model.Post, newID func() string) model.Post {
	p.ID = newID()
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}
	return p
}

// jsonPost is the document format shared by the backends that store posts as
// opaque JSON values (redis, dynamodb, consul).
type jsonPost struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Author  jsonAuthor `json:"author"`
	Created time.Time  `json:"created"`
}

type jsonAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func encodePost(p model.Post) ([]byte, error) {
	return json.Marshal(jsonPost{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Author:  jsonAuthor{FirstName: p.Author.FirstName, LastName: p.Author.LastName},
		Created: p.Created,
	})
}

func decodePost(data []byte) (model.Post, error) {
	var doc jsonPost
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Post{}, fmt.Errorf("malformed stored post document: %w", err)
	}
	return model.Post{
		ID:      doc.ID,
		Title:   doc.Title,
		Content: doc.Content,
		Author:  model.Author{FirstName: doc.Author.FirstName, LastName: doc.Author.LastName},
		Created: doc.Created,
	}, nil
}
