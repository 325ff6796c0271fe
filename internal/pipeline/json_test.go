package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah04091/contract-ai-sub004/pkg/anthropic"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", "Hier ist das Ergebnis: {\"a\": 1}", `{"a": 1}`},
		{"trailing prose", "{\"a\": 1} -- Ende der Analyse", `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"whitespace", "  \n {\"a\": 1} \n ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestExtractText(t *testing.T) {
	resp := &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: "erster Teil "},
			{Type: "tool_use", Text: "ignoriert"},
			{Type: "text", Text: "zweiter Teil"},
		},
	}

	assert.Equal(t, "erster Teil zweiter Teil", extractText(resp))
	assert.Equal(t, "", extractText(&anthropic.MessageResponse{}))
}
