package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"checkins/2025-06-02/abc.jpg", "image/jpeg"},
		{"checkins/2025-06-02/abc.png", "image/png"},
		{"checkins/2025-06-02/abc", "image/jpeg"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ContentType(test.key), test.key)
	}
}
