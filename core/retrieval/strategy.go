package retrieval

import (
	"context"

	"github.com/siherrmann/vecstore/model"
)

// Strategy defines a retrieval strategy
type Strategy interface {
	Retrieve(ctx context.Context, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error)
}

// GlobalStrategy searches across all folders
type GlobalStrategy struct {
	engine *Engine
}

// NewGlobalStrategy creates a new global strategy
func NewGlobalStrategy(engine *Engine) *GlobalStrategy {
	return &GlobalStrategy{engine: engine}
}

// Retrieve performs global retrieval
func (s *GlobalStrategy) Retrieve(ctx context.Context, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	return s.engine.Similarity(ctx, embedding, config)
}

// FolderStrategy restricts retrieval to a single folder
type FolderStrategy struct {
	engine     *Engine
	folderPath string
}

// NewFolderStrategy creates a new folder-scoped strategy
func NewFolderStrategy(engine *Engine, folderPath string) *FolderStrategy {
	return &FolderStrategy{
		engine:     engine,
		folderPath: folderPath,
	}
}

// Retrieve performs folder-scoped retrieval
func (s *FolderStrategy) Retrieve(ctx context.Context, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	return s.engine.FolderScoped(ctx, s.folderPath, embedding, config)
}

// MultiFolderStrategy searches a set of folders and merges the results
type MultiFolderStrategy struct {
	engine      *Engine
	folderPaths []string
}

// NewMultiFolderStrategy creates a new multi-folder strategy
func NewMultiFolderStrategy(engine *Engine, folderPaths []string) *MultiFolderStrategy {
	return &MultiFolderStrategy{
		engine:      engine,
		folderPaths: folderPaths,
	}
}

// Retrieve performs multi-folder retrieval
func (s *MultiFolderStrategy) Retrieve(ctx context.Context, embedding []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	return s.engine.MultiFolder(ctx, s.folderPaths, embedding, config)
}
