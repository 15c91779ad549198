// Package store defines the folder-organized vector store contract and the
// similarity primitive shared by its implementations.
package store

import (
	"context"
	"math"

	"github.com/siherrmann/vecstore/model"
)

// VectorStore is a flat collection of vector records organized by virtual
// folder paths carried in record metadata. Folders exist the moment any
// vector references them, there is no separate folder-creation step.
//
// Implementations must tolerate concurrent readers; folder moves rewrite a
// single record's folder path atomically so searches never observe a
// half-updated record.
type VectorStore interface {
	// AddVectors validates every record's folder path (defaulting missing
	// ones to the root folder) and upserts the batch. Validation is
	// atomic: one invalid path fails the whole batch before any mutation.
	AddVectors(ctx context.Context, records []*model.VectorRecord) error

	// Search returns up to config.TopK records ranked by descending
	// cosine similarity, optionally filtered by config.Threshold.
	Search(ctx context.Context, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error)

	// SearchInFolder restricts Search to records whose folder path
	// exactly matches folderPath. An empty or unknown folder yields an
	// empty result, not an error.
	SearchInFolder(ctx context.Context, folderPath string, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error)

	// ListFolders returns the distinct folder paths referenced by any
	// vector, sorted lexicographically ascending.
	ListFolders(ctx context.Context) ([]string, error)

	// FolderStatistics counts the vectors whose folder path exactly
	// equals folderPath. Unknown folders report zero, they are
	// indistinguishable from empty ones.
	FolderStatistics(ctx context.Context, folderPath string) (*model.FolderStatistics, error)

	// MoveToFolder rewrites the folder path of every referenced vector.
	// The call is all-or-nothing: a single unknown id fails it without
	// moving anything.
	MoveToFolder(ctx context.Context, vectorIDs []string, targetFolderPath string) error

	// MoveFolderContents relocates every vector in sourceFolderPath to
	// targetFolderPath. An empty source folder is a legal no-op.
	MoveFolderContents(ctx context.Context, sourceFolderPath, targetFolderPath string) error

	// UpdateMetadata merges extra metadata keys into a single record.
	UpdateMetadata(ctx context.Context, vectorID string, extra model.Metadata) error

	// DeleteByFilter removes all records whose extra metadata matches
	// every key/value pair of the filter and returns how many were
	// deleted.
	DeleteByFilter(ctx context.Context, filter model.Metadata) (int, error)

	// Count returns the total number of stored vectors.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// CosineSimilarity calculates the cosine similarity between two embedding
// vectors. Mismatched lengths or zero vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
