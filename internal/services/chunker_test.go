package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("A short paragraph.", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph.", chunks[0])
}

func TestChunkText_SplitsOnParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	para := strings.Repeat("word ", 30)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	chunks := chunker.ChunkText(text, 200, 0)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200+2)
	}
}

func TestChunkText_EmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 200))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 200))
}

func TestChunkText_DefaultsForBadArguments(t *testing.T) {
	chunker := NewTextChunker()

	// Non-positive size and negative overlap fall back to sane defaults.
	chunks := chunker.ChunkText("Some text.", 0, -5)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Some text.", chunks[0])
}

func TestCleanText(t *testing.T) {
	in := "  line one  \n\n\n   line two\n\n"
	assert.Equal(t, "line one\nline two", CleanText(in))
}
