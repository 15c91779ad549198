// Package vecstore provides a folder-organized vector store with document
// chunking, pluggable embedders, and a registry of named databases.
package vecstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/siherrmann/vecstore/config"
	"github.com/siherrmann/vecstore/core/pipeline"
	"github.com/siherrmann/vecstore/core/retrieval"
	"github.com/siherrmann/vecstore/helper"
	"github.com/siherrmann/vecstore/model"
	"github.com/siherrmann/vecstore/registry"
	"github.com/siherrmann/vecstore/store"
	"github.com/siherrmann/vecstore/store/memory"
)

// StoreFactory creates the backing vector store for a newly registered
// database.
type StoreFactory func(name string) (store.VectorStore, error)

// VecStore provides a unified interface to the registry, the per-database
// vector stores, and the chunking pipeline
type VecStore struct {
	Registry *registry.Registry
	Pipeline *pipeline.Pipeline // Optional chunking pipeline

	mu       sync.RWMutex
	stores   map[string]store.VectorStore
	newStore StoreFactory

	// Caches extracted document text by document id
	textCache *helper.LRUCache

	// Logging
	log *slog.Logger
}

// NewVecStore creates a new VecStore instance from the application
// configuration. A nil configuration uses the defaults.
func NewVecStore(cfg *config.AppConfig) (*VecStore, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Registry backend
	var service registry.MetadataService
	switch cfg.Registry.Type {
	case "", "memory":
		service = registry.NewMemoryMetadataService()
	case "bolt":
		var err error
		service, err = registry.NewBoltMetadataService(cfg.Registry.Path)
		if err != nil {
			return nil, helper.NewError("open bolt metadata service", err)
		}
	default:
		return nil, helper.NewError("create registry", fmt.Errorf("unsupported registry type: %s", cfg.Registry.Type))
	}

	reg, err := registry.NewRegistry(service, logger)
	if err != nil {
		return nil, helper.NewError("create registry", err)
	}

	// Store factory
	var factory StoreFactory
	switch cfg.Store.Type {
	case "", "memory":
		factory = func(string) (store.VectorStore, error) {
			return memory.NewStore(), nil
		}
	default:
		return nil, helper.NewError("create store factory", fmt.Errorf("unsupported store type: %s (use SetStoreFactory for custom backends)", cfg.Store.Type))
	}

	return &VecStore{
		Registry:  reg,
		stores:    make(map[string]store.VectorStore),
		newStore:  factory,
		textCache: helper.NewLRUCache(helper.DefaultCacheCapacity),
		log:       logger,
	}, nil
}

// SetStoreFactory replaces the factory used for new databases, for custom
// backends such as the postgres store.
func (v *VecStore) SetStoreFactory(factory StoreFactory) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.newStore = factory
}

// SetPipeline sets the chunking pipeline for document processing
func (v *VecStore) SetPipeline(pipeline *pipeline.Pipeline) {
	v.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default chunking and embedding pipeline.
// This uses the word-window chunker with 500 token chunks and 50 token
// overlap, and DefaultEmbedder with the all-MiniLM-L6-v2 model (384
// dimensions).
func (v *VecStore) UseDefaultPipeline() error {
	chunker, err := pipeline.NewChunker(pipeline.DefaultChunkOptions())
	if err != nil {
		return helper.NewError("create default chunker", err)
	}

	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	v.Pipeline = pipeline.NewPipeline(chunker, embedder)
	return nil
}

// UsePipelineFromConfig builds the pipeline selected by the configuration's
// chunker and embedder sections.
func (v *VecStore) UsePipelineFromConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	chunker, err := pipeline.NewChunker(pipeline.ChunkOptions{
		ChunkSize:        cfg.Chunker.ChunkSize,
		Overlap:          cfg.Chunker.Overlap,
		SplitBySentence:  cfg.Chunker.SplitBySentence,
		SplitByParagraph: cfg.Chunker.SplitByParagraph,
	})
	if err != nil {
		return helper.NewError("create chunker", err)
	}

	var embedder pipeline.EmbedFunc
	switch cfg.Embedder.Type {
	case "", "hugot":
		embedder, err = pipeline.DefaultEmbedder()
		if err != nil {
			return helper.NewError("create hugot embedder", err)
		}
	case "openai":
		embedderConfig := pipeline.OpenAIEmbedderConfig{}
		if cfg.Embedder.OpenAI != nil {
			embedderConfig.Model = cfg.Embedder.OpenAI.Model
			embedderConfig.BaseURL = cfg.Embedder.OpenAI.BaseURL
			embedderConfig.APIKey = os.Getenv(cfg.Embedder.OpenAI.APIKeyEnv)
		}
		embedder, err = pipeline.OpenAIEmbedder(embedderConfig)
		if err != nil {
			return helper.NewError("create openai embedder", err)
		}
	default:
		return helper.NewError("create embedder", fmt.Errorf("unsupported embedder type: %s", cfg.Embedder.Type))
	}

	v.Pipeline = pipeline.NewPipeline(chunker, embedder)
	return nil
}

// CreateDatabase registers a named database and creates its backing store.
// Duplicate names fail with "Database already exists".
func (v *VecStore) CreateDatabase(name string, databaseType model.DatabaseType, owner string, description string) (*model.DatabaseInfo, error) {
	info, err := v.Registry.Register(name, databaseType, owner, description)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	vectorStore, err := v.newStore(name)
	if err != nil {
		// Roll the registration back so the name stays available.
		if unregisterErr := v.Registry.Unregister(name); unregisterErr != nil {
			v.log.Error("Failed to roll back registration", slog.String("name", name), slog.Any("error", unregisterErr))
		}
		return nil, helper.NewError("create store", err)
	}
	v.stores[name] = vectorStore

	return info, nil
}

// DropDatabase removes a database from the registry and closes its store.
// Unknown names fail with "Database not found".
func (v *VecStore) DropDatabase(name string) error {
	err := v.Registry.Unregister(name)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if vectorStore, ok := v.stores[name]; ok {
		if closeErr := vectorStore.Close(); closeErr != nil {
			v.log.Error("Failed to close store", slog.String("name", name), slog.Any("error", closeErr))
		}
		delete(v.stores, name)
	}

	return nil
}

// ListDatabases returns the registered databases newest-first, optionally
// filtered by type.
func (v *VecStore) ListDatabases(databaseType model.DatabaseType) ([]*model.DatabaseInfo, error) {
	return v.Registry.List(databaseType)
}

// GetDatabase returns the registry entry for a name, or nil without an
// error when unknown.
func (v *VecStore) GetDatabase(name string) (*model.DatabaseInfo, error) {
	return v.Registry.Get(name)
}

// storeFor resolves the backing store of a registered database, creating it
// lazily for entries that survived a restart of a persistent registry.
func (v *VecStore) storeFor(name string) (store.VectorStore, error) {
	v.mu.RLock()
	vectorStore, ok := v.stores[name]
	v.mu.RUnlock()
	if ok {
		return vectorStore, nil
	}

	info, err := v.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, model.ErrDatabaseNotFound
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if vectorStore, ok := v.stores[name]; ok {
		return vectorStore, nil
	}

	vectorStore, err = v.newStore(name)
	if err != nil {
		return nil, helper.NewError("create store", err)
	}
	v.stores[name] = vectorStore

	return vectorStore, nil
}

// AddVectors validates and upserts a batch of records into a database.
func (v *VecStore) AddVectors(ctx context.Context, databaseName string, records []*model.VectorRecord) error {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return err
	}
	return vectorStore.AddVectors(ctx, records)
}

// Search performs vector similarity search across all folders of a database.
func (v *VecStore) Search(ctx context.Context, databaseName string, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return nil, err
	}

	engine, err := retrieval.NewEngine(vectorStore)
	if err != nil {
		return nil, err
	}

	return engine.Similarity(ctx, query, config)
}

// SearchText embeds the query with the pipeline's embedder and performs
// vector similarity search.
func (v *VecStore) SearchText(ctx context.Context, databaseName string, query string, config *model.SearchConfig) ([]*model.SearchResult, error) {
	if v.Pipeline == nil || v.Pipeline.Embedder == nil {
		return nil, helper.NewError("text search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	embedding, err := v.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return v.Search(ctx, databaseName, embedding, config)
}

// SearchInFolder performs vector similarity search restricted to a folder.
func (v *VecStore) SearchInFolder(ctx context.Context, databaseName string, folderPath string, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return nil, err
	}

	engine, err := retrieval.NewEngine(vectorStore)
	if err != nil {
		return nil, err
	}

	return engine.FolderScoped(ctx, folderPath, query, config)
}

// ListFolders returns the distinct folder paths of a database, sorted
// lexicographically ascending.
func (v *VecStore) ListFolders(ctx context.Context, databaseName string) ([]string, error) {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return nil, err
	}
	return vectorStore.ListFolders(ctx)
}

// GetFolderStatistics counts the vectors in a folder of a database.
func (v *VecStore) GetFolderStatistics(ctx context.Context, databaseName string, folderPath string) (*model.FolderStatistics, error) {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return nil, err
	}
	return vectorStore.FolderStatistics(ctx, folderPath)
}

// MoveToFolder rewrites the folder path of the referenced vectors. The call
// is all-or-nothing: a single unknown id fails it without moving anything.
func (v *VecStore) MoveToFolder(ctx context.Context, databaseName string, vectorIDs []string, targetFolderPath string) error {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return err
	}
	return vectorStore.MoveToFolder(ctx, vectorIDs, targetFolderPath)
}

// MoveFolderContents relocates every vector in the source folder to the
// target folder.
func (v *VecStore) MoveFolderContents(ctx context.Context, databaseName string, sourceFolderPath, targetFolderPath string) error {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return err
	}
	return vectorStore.MoveFolderContents(ctx, sourceFolderPath, targetFolderPath)
}

// UpdateMetadata merges extra metadata keys into a single record.
func (v *VecStore) UpdateMetadata(ctx context.Context, databaseName string, vectorID string, extra model.Metadata) error {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return err
	}
	return vectorStore.UpdateMetadata(ctx, vectorID, extra)
}

// DeleteByFilter removes all records of a database whose extra metadata
// matches every key/value pair of the filter.
func (v *VecStore) DeleteByFilter(ctx context.Context, databaseName string, filter model.Metadata) (int, error) {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return 0, err
	}
	return vectorStore.DeleteByFilter(ctx, filter)
}

// CountVectors returns the total number of vectors in a database.
func (v *VecStore) CountVectors(ctx context.Context, databaseName string) (int, error) {
	vectorStore, err := v.storeFor(databaseName)
	if err != nil {
		return 0, err
	}
	return vectorStore.Count(ctx)
}

// ProcessAndInsertDocument processes a document by:
// 1. Chunking and embedding the content using the pipeline
// 2. Inserting the resulting vector records into the database's folder
// The extracted text is cached by document id for later lookups.
// Returns the number of chunks inserted and any error encountered.
func (v *VecStore) ProcessAndInsertDocument(ctx context.Context, databaseName string, doc *model.Document, folderPath string) (int, error) {
	if v.Pipeline == nil {
		return 0, helper.NewError("process document", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if doc.Content == "" {
		return 0, helper.NewError("process document", fmt.Errorf("document content is empty"))
	}

	records, err := v.Pipeline.Process(doc, folderPath)
	if err != nil {
		return 0, helper.NewError("process document", err)
	}

	v.log.Info("Processed document into chunks", slog.Int("num_chunks", len(records)), slog.String("document_id", doc.ID))

	err = v.AddVectors(ctx, databaseName, records)
	if err != nil {
		return 0, helper.NewError("insert vectors", err)
	}

	v.textCache.Put(doc.ID, doc.Content)

	v.log.Info("Inserted document", slog.String("document_id", doc.ID), slog.String("name", doc.Name))

	return len(records), nil
}

// CachedDocumentText returns the cached text of a previously processed
// document.
func (v *VecStore) CachedDocumentText(documentID string) (string, bool) {
	return v.textCache.Get(documentID)
}

// Close closes every database store and the registry backend.
func (v *VecStore) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var firstErr error
	for name, vectorStore := range v.stores {
		if err := vectorStore.Close(); err != nil && firstErr == nil {
			firstErr = helper.NewError(fmt.Sprintf("close store %s", name), err)
		}
		delete(v.stores, name)
	}

	if err := v.Registry.Close(); err != nil && firstErr == nil {
		firstErr = helper.NewError("close registry", err)
	}

	return firstErr
}
