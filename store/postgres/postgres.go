// Package postgres provides the pgvector-backed vector store backend.
// Similarity search and folder operations run inside SQL functions loaded
// from the embedded schema, the Go side only validates and scans.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/vecstore/helper"
	"github.com/siherrmann/vecstore/model"
	loadSql "github.com/siherrmann/vecstore/sql"
)

// Store is a Postgres-backed folder-organized vector store.
type Store struct {
	db *helper.Database
}

// NewStore creates a new Postgres vector store.
// It loads the vector SQL functions and creates the vectors table with the
// given embedding dimension. If force is true, it will reload the SQL
// functions even if they already exist.
func NewStore(db *helper.Database, embeddingDim int, force bool) (*Store, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	store := &Store{
		db: db,
	}

	err := loadSql.LoadVectorsSql(store.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load vectors sql", err)
	}

	err = store.createTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized postgres vector store")

	return store, nil
}

// createTable creates the 'vectors' table in the database.
// If the table already exists, it does not create it again.
func (s *Store) createTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.db.Instance.ExecContext(ctx, `SELECT init_vectors($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing vectors table: %#v", err)
	}

	s.db.Logger.Info("Checked/created table vectors")

	return nil
}

// AddVectors validates and upserts a batch of records inside a single
// transaction. Records without a folder path default to the root folder.
// An invalid path fails the whole batch before any statement runs.
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

	tx, err := s.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	for i := range prepared {
		record := prepared[i]
		_, err := tx.ExecContext(
			ctx,
			`SELECT upsert_vector($1, $2, $3, $4)`,
			record.ID,
			pgvector.NewVector(record.Values),
			record.Metadata.FolderPath,
			record.Metadata.Extra,
		)
		if err != nil {
			return helper.NewError("exec", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	return nil
}

// Search performs vector similarity search across all folders.
func (s *Store) Search(ctx context.Context, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	cfg := searchConfigOrDefault(config)

	rows, err := s.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_vectors_by_similarity($1, $2, $3)`,
		pgvector.NewVector(query),
		cfg.TopK,
		cfg.Threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanSearchResults(rows, cfg.IncludeVectors)
}

// SearchInFolder performs vector similarity search within a single folder.
func (s *Store) SearchInFolder(ctx context.Context, folderPath string, query []float32, config *model.SearchConfig) ([]*model.SearchResult, error) {
	if err := model.ValidateFolderPath(folderPath); err != nil {
		return nil, err
	}
	cfg := searchConfigOrDefault(config)

	rows, err := s.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_vectors_by_similarity_in_folder($1, $2, $3, $4)`,
		folderPath,
		pgvector.NewVector(query),
		cfg.TopK,
		cfg.Threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanSearchResults(rows, cfg.IncludeVectors)
}

// ListFolders returns the distinct folder paths in lexicographic order.
func (s *Store) ListFolders(ctx context.Context) ([]string, error) {
	rows, err := s.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_folders()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	folders := []string{}
	for rows.Next() {
		var folder string
		err := rows.Scan(&folder)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		folders = append(folders, folder)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return folders, nil
}

// FolderStatistics counts the vectors referencing exactly folderPath.
func (s *Store) FolderStatistics(ctx context.Context, folderPath string) (*model.FolderStatistics, error) {
	if err := model.ValidateFolderPath(folderPath); err != nil {
		return nil, err
	}

	var count int
	err := s.db.Instance.QueryRowContext(
		ctx,
		`SELECT count_vectors_in_folder($1)`,
		folderPath,
	).Scan(&count)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return &model.FolderStatistics{
		FolderPath:  folderPath,
		VectorCount: count,
	}, nil
}

// MoveToFolder rewrites the folder path of every referenced vector.
// The SQL function checks all ids before updating, so an unknown id fails
// the call without moving anything.
func (s *Store) MoveToFolder(ctx context.Context, vectorIDs []string, targetFolderPath string) error {
	if err := model.ValidateFolderPath(targetFolderPath); err != nil {
		return err
	}

	_, err := s.db.Instance.ExecContext(
		ctx,
		`SELECT update_vector_folder($1, $2)`,
		pq.Array(vectorIDs),
		targetFolderPath,
	)
	if err != nil {
		if strings.Contains(err.Error(), "vector not found") {
			return model.ErrVectorNotFound
		}
		return helper.NewError("exec", err)
	}

	return nil
}

// MoveFolderContents relocates every vector in the source folder to the
// target folder.
func (s *Store) MoveFolderContents(ctx context.Context, sourceFolderPath, targetFolderPath string) error {
	if err := model.ValidateFolderPath(sourceFolderPath); err != nil {
		return err
	}
	if err := model.ValidateFolderPath(targetFolderPath); err != nil {
		return err
	}

	_, err := s.db.Instance.ExecContext(
		ctx,
		`SELECT move_folder_contents($1, $2)`,
		sourceFolderPath,
		targetFolderPath,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}

	return nil
}

// UpdateMetadata merges extra metadata keys into a single record.
func (s *Store) UpdateMetadata(ctx context.Context, vectorID string, extra model.Metadata) error {
	var updated int
	err := s.db.Instance.QueryRowContext(
		ctx,
		`SELECT update_vector_metadata($1, $2)`,
		vectorID,
		extra,
	).Scan(&updated)
	if err != nil {
		return helper.NewError("scan", err)
	}
	if updated == 0 {
		return model.ErrVectorNotFound
	}

	return nil
}

// DeleteByFilter removes all records whose extra metadata contains every
// key/value pair of the filter and returns the number deleted.
func (s *Store) DeleteByFilter(ctx context.Context, filter model.Metadata) (int, error) {
	var deleted int
	err := s.db.Instance.QueryRowContext(
		ctx,
		`SELECT delete_vectors_by_filter($1)`,
		filter,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return deleted, nil
}

// Count returns the total number of stored vectors.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.Instance.QueryRowContext(
		ctx,
		`SELECT count_vectors()`,
	).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return count, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Instance.Close()
}

func searchConfigOrDefault(config *model.SearchConfig) model.SearchConfig {
	cfg := model.DefaultSearchConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.TopK <= 0 {
		cfg.TopK = model.DefaultSearchConfig().TopK
	}
	return cfg
}

func scanSearchResults(rows *sql.Rows, includeVectors bool) ([]*model.SearchResult, error) {
	results := []*model.SearchResult{}
	for rows.Next() {
		result := &model.SearchResult{}

		var embedding pgvector.Vector
		err := rows.Scan(
			&result.ID,
			&result.Metadata.FolderPath,
			&result.Metadata.Extra,
			&embedding,
			&result.Score,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		if includeVectors {
			result.Vector = embedding.Slice()
		}

		results = append(results, result)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}
