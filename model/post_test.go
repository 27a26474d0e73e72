package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorDisplayName(t *testing.T) {
	a := Author{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", a.DisplayName())
}
