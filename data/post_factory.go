// Package data produces the fixture posts used by the contract tests: a
// seeded pseudo-random factory and a loader for YAML seed files.
package data

import (
	"fmt"
	"math/rand"

	"github.com/blogware/posts-contract-tests/apidef"
	"github.com/blogware/posts-contract-tests/model"
)

var firstNames = []string{
	"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Leslie", "Tony",
}

var lastNames = []string{
	"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Lamport", "Hoare",
}

var titleWords = []string{
	"announcing", "understanding", "debugging", "scaling", "migrating",
	"profiling", "deploying", "revisiting",
}

var topicWords = []string{
	"the scheduler", "our build pipeline", "the query planner", "rate limiting",
	"connection pooling", "the cache layer", "feature rollouts", "log ingestion",
}

// PostFactory builds distinct, deterministic fixture posts. The same seed
// always yields the same sequence, so a failing test can be reproduced by
// rerunning with the seed it reported.
type PostFactory struct {
	rand    *rand.Rand
	counter int
}

func NewPostFactory(seed int64) *PostFactory {
	return &PostFactory{rand: rand.New(rand.NewSource(seed))}
}

// MakePost returns a new fixture post without an id; the store assigns one at
// insertion. Every post from the same factory has a unique title.
func (f *PostFactory) MakePost() model.Post {
	f.counter++
	return model.Post{
		Title:   fmt.Sprintf("%s %s #%d", f.pick(titleWords), f.pick(topicWords), f.counter),
		Content: fmt.Sprintf("Post body %d: notes on %s.", f.counter, f.pick(topicWords)),
		Author: model.Author{
			FirstName: f.pick(firstNames),
			LastName:  f.pick(lastNames),
		},
	}
}

// MakePosts returns n fixture posts.
func (f *PostFactory) MakePosts(n int) []model.Post {
	ret := make([]model.Post, 0, n)
	for i := 0; i < n; i++ {
		ret = append(ret, f.MakePost())
	}
	return ret
}

// MakeNewPostParams returns the request-body form of a fixture post, for
// exercising POST /posts.
func (f *PostFactory) MakeNewPostParams() apidef.NewPostParams {
	p := f.MakePost()
	return apidef.NewPostParams{
		Title:   p.Title,
		Content: p.Content,
		Author: apidef.AuthorParams{
			FirstName: p.Author.FirstName,
			LastName:  p.Author.LastName,
		},
	}
}

func (f *PostFactory) pick(words []string) string {
	return words[f.rand.Intn(len(words))]
}
