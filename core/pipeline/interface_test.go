package pipeline

import (
	"fmt"
	"testing"

	"github.com/siherrmann/vecstore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder creates a deterministic embedder for testing.
func stubEmbedder(dimension int) EmbedFunc {
	return func(text string) ([]float32, error) {
		embedding := make([]float32, dimension)
		for i := 0; i < dimension; i++ {
			embedding[i] = float32((len(text)+i)%100) / 100.0
		}
		return embedding, nil
	}
}

func TestNewPipeline(t *testing.T) {
	t.Run("Valid call NewPipeline", func(t *testing.T) {
		chunker, err := NewChunker(DefaultChunkOptions())
		require.NoError(t, err)

		p := NewPipeline(chunker, stubEmbedder(16))

		require.NotNil(t, p, "Expected NewPipeline to return a non-nil instance")
		assert.NotNil(t, p.Chunker)
		assert.NotNil(t, p.Embedder)
	})
}

func TestPipelineProcess(t *testing.T) {
	chunker, err := NewChunker(ChunkOptions{ChunkSize: 20, Overlap: 4})
	require.NoError(t, err)
	p := NewPipeline(chunker, stubEmbedder(16))

	doc := &model.Document{
		ID:      "doc-1",
		Name:    "doc-1.txt",
		Type:    model.DocumentTypeTxt,
		Content: wordsText(60),
	}

	t.Run("Process produces one record per chunk", func(t *testing.T) {
		records, err := p.Process(doc, "/documents")

		require.NoError(t, err)
		require.Greater(t, len(records), 1, "Expected multiple chunks for the document")

		for i, record := range records {
			assert.Equal(t, fmt.Sprintf("doc-1_chunk_%d", i), record.ID)
			assert.Len(t, record.Values, 16, "Expected embedding dimension to match the embedder")
			assert.Equal(t, "/documents", record.Metadata.FolderPath)
			assert.Equal(t, "doc-1", record.Metadata.Extra["document_id"])
			assert.Equal(t, i, record.Metadata.Extra["chunk_index"])
			assert.NotEmpty(t, record.Metadata.Extra["text"])
		}
	})

	t.Run("Process validates the folder path", func(t *testing.T) {
		_, err := p.Process(doc, "documents")

		require.Error(t, err)
		assert.Equal(t, "Folder path must start with /", err.Error())
	})

	t.Run("Chunking errors propagate", func(t *testing.T) {
		empty := &model.Document{ID: "empty", Name: "empty.txt", Type: model.DocumentTypeTxt}

		_, err := p.Process(empty, "/documents")

		require.Error(t, err)
		assert.Equal(t, "Cannot chunk empty text", err.Error())
	})

	t.Run("Embedding errors propagate", func(t *testing.T) {
		failing := NewPipeline(chunker, func(text string) ([]float32, error) {
			return nil, fmt.Errorf("embedder unavailable")
		})

		_, err := failing.Process(doc, "/documents")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedder unavailable")
	})

	t.Run("Chunk splits without embedding", func(t *testing.T) {
		chunks, err := p.Chunk(doc)

		require.NoError(t, err)
		assert.Greater(t, len(chunks), 1)
	})
}
