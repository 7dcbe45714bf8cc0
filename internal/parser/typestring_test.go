package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequalify(t *testing.T) {
	tests := []struct {
		in, from, want string
	}{
		{"bg.Key", "bg", "beangen.Key"},
		{"*bg.Key", "bg", "*beangen.Key"},
		{"map[bg.Key][]bg.Key", "bg", "map[beangen.Key][]beangen.Key"},
		{"func(bg.Key) error", "bg", "func(beangen.Key) error"},
		{"bgx.Key", "bg", "bgx.Key"},
		{"bg", "bg", "bg"},
		{"beangen.Key", "beangen", "beangen.Key"},
		{"string", "", "string"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, requalify(tt.in, tt.from, "beangen"), tt.in)
	}
}
