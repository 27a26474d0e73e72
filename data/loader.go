package data

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blogware/posts-contract-tests/model"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

type seedAuthor struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
}

type seedPost struct {
	Title   string     `yaml:"title"`
	Content string     `yaml:"content"`
	Author  seedAuthor `yaml:"author"`
	Created time.Time  `yaml:"created"`
}

type seedFile struct {
	Posts []seedPost `yaml:"posts"`
}

// LoadSeedPosts reads one of the embedded YAML seed files and returns its
// posts, without ids; the path is relative to data/data-files.
func LoadSeedPosts(path string) ([]model.Post, error) {
	raw, err := dataFilesRoot.ReadFile(dataBasePath + "/" + path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %q: %w", path, err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("malformed seed file %q: %w", path, err)
	}
	ret := make([]model.Post, 0, len(file.Posts))
	for _, sp := range file.Posts {
		ret = append(ret, model.Post{
			Title:   sp.Title,
			Content: sp.Content,
			Author: model.Author{
				FirstName: sp.Author.FirstName,
				LastName:  sp.Author.LastName,
			},
			Created: sp.Created,
		})
	}
	return ret, nil
}
