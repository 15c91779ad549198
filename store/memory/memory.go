// Package memory provides the in-memory vector store backend, a
// RWMutex-guarded flat collection with brute-force cosine search.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/siherrmann/vecstore/model"
	"github.com/siherrmann/vecstore/store"
)

// Store is an in-memory folder-organized vector store.
type Store struct {
	mu      sync.RWMutex
	records map[string]*model.VectorRecord
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*model.VectorRecord),
	}
}

// AddVectors validates and upserts a batch of records. Records without a
// folder path default to the root folder. Validation runs over the whole
// batch before any record is stored, so an invalid path leaves the store
// untouched.
func (s *Store) AddVectors(ctx context.Context, records []*model.VectorRecord) error {
	prepared := make([]model.VectorRecord, len(records))
	for i, record := range records {
		prepared[i] = *record
		prepared[i].Metadata = record.Metadata.Clone()
		if prepared[i].Metadata.FolderPath == "" {
			prepared[i].Metadata.FolderPath = model.RootFolderPath
		}
		if err := model.ValidateFolderPath(prepared[i].Metadata.FolderPath); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range prepared {
		record := prepared[i]
		record.Values = append([]float32(nil), record.Values...)
		s.records[record.ID] = &record
	}

	return nil
}

// Search returns the top-K records by descending cosine similarity.
func (s *Store) Search(ctx context.Context, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	return s.search(query, config, func(*model.VectorRecord) bool { return true })
}

// SearchInFolder returns the top-K records within one folder. The folder
// path is validated against the grammar before searching; an empty or
// unknown folder yields an empty result.
func (s *Store) SearchInFolder(ctx context.Context, folderPath string, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	if err := model.ValidateFolderPath(folderPath); err != nil {
		return nil, err
	}
	return s.search(query, config, func(record *model.VectorRecord) bool {
		return record.Metadata.FolderPath == folderPath
	})
}

func (s *Store) search(query []float32, config *model.SearchConfig, match func(*model.VectorRecord) bool) ([]*model.SearchResult, error) {
	cfg := model.DefaultSearchConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.TopK <= 0 {
		cfg.TopK = model.DefaultSearchConfig().TopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.SearchResult, 0, len(s.records))
	for _, record := range s.records {
		if !match(record) {
			continue
		}

		score := store.CosineSimilarity(record.Values, query)
		if cfg.Threshold > 0 && score < cfg.Threshold {
			continue
		}

		result := &model.SearchResult{
			ID:       record.ID,
			Score:    score,
			Metadata: record.Metadata.Clone(),
		}
		if cfg.IncludeVectors {
			result.Vector = append([]float32(nil), record.Values...)
		}
		results = append(results, result)
	}

	// Descending by score, ties broken by id for deterministic ordering.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > cfg.TopK {
		results = results[:cfg.TopK]
	}

	return results, nil
}

// ListFolders returns the distinct folder paths in lexicographic order.
func (s *Store) ListFolders(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, record := range s.records {
		seen[record.Metadata.FolderPath] = struct{}{}
	}

	folders := make([]string, 0, len(seen))
	for folder := range seen {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	return folders, nil
}

// FolderStatistics counts the vectors referencing exactly folderPath.
func (s *Store) FolderStatistics(ctx context.Context, folderPath string) (*model.FolderStatistics, error) {
	if err := model.ValidateFolderPath(folderPath); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, record := range s.records {
		if record.Metadata.FolderPath == folderPath {
			count++
		}
	}

	return &model.FolderStatistics{
		FolderPath:  folderPath,
		VectorCount: count,
	}, nil
}

// MoveToFolder rewrites the folder path of every referenced vector.
// All ids are checked before the first rewrite, so an unknown id fails
// the call without moving anything.
func (s *Store) MoveToFolder(ctx context.Context, vectorIDs []string, targetFolderPath string) error {
	if err := model.ValidateFolderPath(targetFolderPath); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range vectorIDs {
		if _, ok := s.records[id]; !ok {
			return model.ErrVectorNotFound
		}
	}

	for _, id := range vectorIDs {
		s.records[id].Metadata.FolderPath = targetFolderPath
	}

	return nil
}

// MoveFolderContents relocates every vector in the source folder to the
// target folder, leaving all other folders untouched.
func (s *Store) MoveFolderContents(ctx context.Context, sourceFolderPath, targetFolderPath string) error {
	if err := model.ValidateFolderPath(sourceFolderPath); err != nil {
		return err
	}
	if err := model.ValidateFolderPath(targetFolderPath); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Metadata.FolderPath == sourceFolderPath {
			record.Metadata.FolderPath = targetFolderPath
		}
	}

	return nil
}

// UpdateMetadata merges extra metadata keys into a single record.
func (s *Store) UpdateMetadata(ctx context.Context, vectorID string, extra model.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[vectorID]
	if !ok {
		return model.ErrVectorNotFound
	}

	record.Metadata.Extra = record.Metadata.Extra.Merge(extra)

	return nil
}

// DeleteByFilter removes all records whose extra metadata matches every
// key/value pair of the filter and returns the number deleted.
func (s *Store) DeleteByFilter(ctx context.Context, filter model.Metadata) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, record := range s.records {
		if matchesFilter(record.Metadata.Extra, filter) {
			delete(s.records, id)
			deleted++
		}
	}

	return deleted, nil
}

func matchesFilter(extra model.Metadata, filter model.Metadata) bool {
	for key, want := range filter {
		got, ok := extra[key]
		// DeepEqual instead of != so uncomparable values (slices, maps
		// from JSONB round-trips) filter instead of panicking.
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Count returns the total number of stored vectors.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
