// Package model defines the blog post entity as it exists in storage,
// independently of any wire representation.
package model

import "time"

// Author is the structured form of a post author. On the wire it is always
// flattened to a single display string; see apidef.PostFromModel.
type Author struct {
	FirstName string
	LastName  string
}

// DisplayName returns the client-facing representation of the author.
func (a Author) DisplayName() string {
	return a.FirstName + " " + a.LastName
}

// Post is a stored blog post. ID is assigned by the store at creation and is
// immutable afterwards, as is Created; updates may only touch Title and
// Content.
type Post struct {
	ID      string
	Title   string
	Content string
	Author  Author
	Created time.Time
}
