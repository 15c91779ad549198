// Package retrieval provides similarity retrieval over a vector store,
// scoped globally, to a single folder, or across a set of folders.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/siherrmann/vecstore/helper"
	"github.com/siherrmann/vecstore/model"
	"github.com/siherrmann/vecstore/store"
)

// Engine provides similarity retrieval capabilities over a vector store
type Engine struct {
	store store.VectorStore
}

// NewEngine creates a new retrieval engine
func NewEngine(vectorStore store.VectorStore) (*Engine, error) {
	if vectorStore == nil {
		return nil, helper.NewError("vector store validation", fmt.Errorf("vector store is nil"))
	}

	return &Engine{
		store: vectorStore,
	}, nil
}

// Similarity performs pure vector similarity search across all folders
func (e *Engine) Similarity(ctx context.Context, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	results, err := e.store.Search(ctx, embedding, config)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// FolderScoped performs vector similarity search within a single folder
func (e *Engine) FolderScoped(ctx context.Context, folderPath string, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	results, err := e.store.SearchInFolder(ctx, folderPath, embedding, config)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// MultiFolder performs vector similarity search across a set of folders and
// merges the results. A vector found in more than one pass keeps its best
// score.
func (e *Engine) MultiFolder(ctx context.Context, folderPaths []string, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	cfg := model.DefaultSearchConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.TopK <= 0 {
		cfg.TopK = model.DefaultSearchConfig().TopK
	}

	resultMap := make(map[string]*model.SearchResult)
	for _, folderPath := range folderPaths {
		results, err := e.store.SearchInFolder(ctx, folderPath, embedding, &cfg)
		if err != nil {
			return nil, err
		}

		for _, result := range results {
			if existing, exists := resultMap[result.ID]; !exists || result.Score > existing.Score {
				resultMap[result.ID] = result
			}
		}
	}

	results := e.sortResults(resultMap, cfg.TopK)

	return results, nil
}

func (e *Engine) sortResults(resultMap map[string]*model.SearchResult, topK int) []*model.SearchResult {
	// Convert map to slice
	results := make([]*model.SearchResult, 0, len(resultMap))
	for _, result := range resultMap {
		results = append(results, result)
	}

	// Sort by score, ties broken by id for deterministic ordering
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	// Limit to top-k
	if len(results) > topK {
		results = results[:topK]
	}

	return results
}
