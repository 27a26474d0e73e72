package apidef

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blogware/posts-contract-tests/model"
)

func validParams() NewPostParams {
	return NewPostParams{
		Title:   "t",
		Content: "c",
		Author:  AuthorParams{FirstName: "Jane", LastName: "Doe"},
	}
}

func TestNewPostParamsValidate(t *testing.T) {
	assert.NoError(t, validParams().Validate())

	p := validParams()
	p.Title = ""
	assert.ErrorContains(t, p.Validate(), "title")

	p = validParams()
	p.Content = "   "
	assert.ErrorContains(t, p.Validate(), "content")

	p = validParams()
	p.Author.FirstName = ""
	assert.ErrorContains(t, p.Validate(), "author.firstName")

	p = validParams()
	p.Author.LastName = ""
	assert.ErrorContains(t, p.Validate(), "author.lastName")

	p = NewPostParams{}
	err := p.Validate()
	assert.ErrorContains(t, err, "title")
	assert.ErrorContains(t, err, "content")
	assert.ErrorContains(t, err, "author.firstName")
	assert.ErrorContains(t, err, "author.lastName")
}

func TestPostFromModel(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	wire := PostFromModel(model.Post{
		ID:      "abc123",
		Title:   "t",
		Content: "c",
		Author:  model.Author{FirstName: "Jane", LastName: "Doe"},
		Created: created,
	})

	assert.Equal(t, Post{
		ID:      "abc123",
		Title:   "t",
		Author:  "Jane Doe",
		Content: "c",
		Created: created,
	}, wire)
}
