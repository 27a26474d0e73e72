// Package apidef contains the JSON types of the posts service API, shared
// between the service implementation and the contract tests.
package apidef

import (
	"errors"
	"strings"
	"time"

	"github.com/blogware/posts-contract-tests/model"
)

// Post is the wire representation of a blog post. Note that Author is the
// flattened display string, not the structured value used in storage.
type Post struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

type AuthorParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// NewPostParams is the request body for POST /posts.
type NewPostParams struct {
	Title   string       `json:"title"`
	Author  AuthorParams `json:"author"`
	Content string       `json:"content"`
}

// Validate reports which required fields are missing or blank.
func (p NewPostParams) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(p.Author.FirstName) == "" {
		missing = append(missing, "author.firstName")
	}
	if strings.TrimSpace(p.Author.LastName) == "" {
		missing = append(missing, "author.lastName")
	}
	if len(missing) > 0 {
		return errors.New("missing required field(s): " + strings.Join(missing, ", "))
	}
	return nil
}

// UpdatePostParams is the request body for PUT /posts/{id}. ID must match the
// path parameter. Title and Content are optional; omitted fields are left
// untouched.
type UpdatePostParams struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ServiceStatus is returned by the status resource at GET /.
type ServiceStatus struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// PostFromModel maps a stored post to its wire shape, flattening the author
// to the display string.
func PostFromModel(p model.Post) Post {
	return Post{
		ID:      p.ID,
		Title:   p.Title,
		Author:  p.Author.DisplayName(),
		Content: p.Content,
		Created: p.Created,
	}
}
