package gemini

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/generation"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	t.Run("valid response", func(t *testing.T) {
		t.Parallel()
		schema, err := parseResponse(
			`{"cards": [{"question": "What is Go?", "answer": "A programming language"}]}`,
		)
		require.NoError(t, err)
		require.Len(t, schema.Cards, 1)
		assert.Equal(t, "What is Go?", schema.Cards[0].Question)
		assert.Equal(t, "A programming language", schema.Cards[0].Answer)
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		_, err := parseResponse("")
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()
		_, err := parseResponse(`{"cards": [`)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}

func TestCreatePrompt(t *testing.T) {
	t.Parallel()

	tmpl, err := template.New("flashcard").Parse(promptTemplateText)
	require.NoError(t, err)
	g := &GeminiGenerator{promptTemplate: tmpl}

	t.Run("includes lesson content", func(t *testing.T) {
		t.Parallel()
		prompt, err := g.createPrompt("The mitochondria is the powerhouse of the cell.")
		require.NoError(t, err)
		assert.Contains(t, prompt, "The mitochondria is the powerhouse of the cell.")
		assert.Contains(t, prompt, `{"cards":`)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		t.Parallel()
		_, err := g.createPrompt("")
		assert.ErrorIs(t, err, generation.ErrEmptyContent)
	})
}
