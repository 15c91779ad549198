package retrieval

import (
	"context"
	"testing"

	"github.com/siherrmann/vecstore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategies(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(seedStore(t, map[string]int{"/documents": 6, "/archive": 4}))
	require.NoError(t, err)

	t.Run("Global strategy searches everything", func(t *testing.T) {
		strategy := NewGlobalStrategy(engine)

		results, err := strategy.Retrieve(ctx, vector(0), &model.SearchConfig{TopK: 10})

		require.NoError(t, err)
		assert.Len(t, results, 10)
	})

	t.Run("Folder strategy stays inside its folder", func(t *testing.T) {
		strategy := NewFolderStrategy(engine, "/archive")

		results, err := strategy.Retrieve(ctx, vector(0), &model.SearchConfig{TopK: 10})

		require.NoError(t, err)
		assert.Len(t, results, 4)
		for _, result := range results {
			assert.Equal(t, "/archive", result.Metadata.FolderPath)
		}
	})

	t.Run("Multi-folder strategy merges its folders", func(t *testing.T) {
		strategy := NewMultiFolderStrategy(engine, []string{"/documents", "/archive"})

		results, err := strategy.Retrieve(ctx, vector(0), &model.SearchConfig{TopK: 20})

		require.NoError(t, err)
		assert.Len(t, results, 10)
	})

	t.Run("Strategies satisfy the Strategy interface", func(t *testing.T) {
		strategies := []Strategy{
			NewGlobalStrategy(engine),
			NewFolderStrategy(engine, "/documents"),
			NewMultiFolderStrategy(engine, []string{"/documents"}),
		}

		for _, strategy := range strategies {
			results, err := strategy.Retrieve(ctx, vector(0), &model.SearchConfig{TopK: 1})
			require.NoError(t, err)
			assert.Len(t, results, 1)
		}
	})
}
