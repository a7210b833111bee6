package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		levelURI    string
		fallbackURI string
		basePrefix  string
		expected    string
	}{
		{
			name:        "level URI joined with base prefix",
			levelURI:    "ipfs://X",
			fallbackURI: "https://fallback/1",
			basePrefix:  "https://cdn/",
			expected:    "https://cdn/ipfs://X",
		},
		{
			name:        "empty level URI falls back",
			levelURI:    "",
			fallbackURI: "https://fallback/1",
			basePrefix:  "https://cdn/",
			expected:    "https://fallback/1",
		},
		{
			name:        "empty base prefix returns level URI verbatim",
			levelURI:    "ipfs://X",
			fallbackURI: "https://fallback/1",
			basePrefix:  "",
			expected:    "ipfs://X",
		},
		{
			name:        "everything empty",
			levelURI:    "",
			fallbackURI: "",
			basePrefix:  "",
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.levelURI, tt.fallbackURI, tt.basePrefix))
		})
	}
}
