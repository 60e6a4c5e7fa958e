package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"score": 80}`, `{"score": 80}`},
		{"json fence", "```json\n{\"score\": 80}\n```", `{"score": 80}`},
		{"plain fence", "```\n{\"score\": 80}\n```", `{"score": 80}`},
		{"fence with language id", "```javascript\n{\"score\": 80}\n```", `{"score": 80}`},
		{"surrounding whitespace", "  \n{\"score\": 80}\n ", `{"score": 80}`},
		{"empty", "", ""},
		{"whitespace only", "   \n\t", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
