package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/vecstore"
	"github.com/siherrmann/vecstore/helper"
	"github.com/siherrmann/vecstore/model"
	loadSql "github.com/siherrmann/vecstore/sql"
	"github.com/siherrmann/vecstore/store"
	"github.com/siherrmann/vecstore/store/postgres"
)

const sampleContent1 = `This is a comprehensive document about vector databases and their applications.

Vector databases are designed to store and query high-dimensional embeddings.
They rank stored records by similarity to a query vector instead of exact matches.

PostgreSQL with the pgvector extension can be used to build powerful similarity search systems.
The pgvector extension provides vector columns, distance operators, and approximate indexes.

Organizing vectors into virtual folders allows scoped search and bulk reorganization
without duplicating the underlying records.`

const sampleContent2 = `Machine learning is transforming how we process and retrieve information.

Vector embeddings capture semantic meaning of text, enabling similarity-based search.
Neural networks can learn representations that understand context and relationships.

Modern retrieval systems combine traditional database indexing with machine learning models
to provide more intelligent and context-aware search capabilities.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	db := helper.NewTestDatabase(dbConfig)
	if err := loadSql.Init(db.Instance); err != nil {
		log.Fatalf("Failed to initialize database extensions: %v", err)
	}

	// Create a vecstore whose databases are backed by pgvector
	v, err := vecstore.NewVecStore(nil)
	if err != nil {
		log.Fatalf("Failed to create vecstore: %v", err)
	}
	defer v.Close()

	v.SetStoreFactory(func(name string) (store.VectorStore, error) {
		return postgres.NewStore(db, 384, false)
	})

	// Set up the default pipeline (word-window chunking + embeddings)
	if err := v.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	if _, err := v.CreateDatabase("articles", model.DatabaseTypeVector, "advanced_example", ""); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	ctx := context.Background()

	// Process and insert multiple documents into separate folders
	doc1 := &model.Document{
		ID:      "intro-vector-databases",
		Name:    "Introduction to Vector Databases",
		Type:    model.DocumentTypeTxt,
		Content: sampleContent1,
		Metadata: model.Metadata{
			"author": "Example Author",
			"topic":  "vector databases",
		},
	}

	doc2 := &model.Document{
		ID:      "ml-information-retrieval",
		Name:    "Machine Learning for Information Retrieval",
		Type:    model.DocumentTypeTxt,
		Content: sampleContent2,
		Metadata: model.Metadata{
			"author": "Example Author",
			"topic":  "machine learning",
		},
	}

	fmt.Println("=== Ingesting Documents ===")
	numChunks1, err := v.ProcessAndInsertDocument(ctx, "articles", doc1, "/databases")
	if err != nil {
		log.Fatalf("Failed to process and insert document 1: %v", err)
	}
	fmt.Printf("Document 1 '%s': %d chunks into /databases\n", doc1.Name, numChunks1)

	numChunks2, err := v.ProcessAndInsertDocument(ctx, "articles", doc2, "/ml")
	if err != nil {
		log.Fatalf("Failed to process and insert document 2: %v", err)
	}
	fmt.Printf("Document 2 '%s': %d chunks into /ml\n", doc2.Name, numChunks2)

	queryText := "What are vector databases?"

	// 1. Global search
	fmt.Println("\n=== 1. Global Search ===")
	results, err := v.SearchText(ctx, "articles", queryText, &model.SearchConfig{TopK: 3})
	if err != nil {
		log.Fatalf("Global search failed: %v", err)
	}
	printResults("Global Search", results)

	// 2. Folder-scoped search
	fmt.Println("\n=== 2. Folder-Scoped Search ===")
	embedding, err := v.Pipeline.Embedder(queryText)
	if err != nil {
		log.Fatalf("Failed to embed query: %v", err)
	}
	scopedResults, err := v.SearchInFolder(ctx, "articles", "/databases", embedding, &model.SearchConfig{TopK: 3})
	if err != nil {
		log.Fatalf("Folder-scoped search failed: %v", err)
	}
	printResults("Folder-Scoped Search", scopedResults)

	// 3. Folder reorganization
	fmt.Println("\n=== 3. Folder Reorganization ===")
	if err := v.MoveFolderContents(ctx, "articles", "/ml", "/archive"); err != nil {
		log.Fatalf("Failed to move folder contents: %v", err)
	}
	folders, err := v.ListFolders(ctx, "articles")
	if err != nil {
		log.Fatalf("Failed to list folders: %v", err)
	}
	fmt.Printf("Folders after move: %v\n", folders)

	stats, err := v.GetFolderStatistics(ctx, "articles", "/archive")
	if err != nil {
		log.Fatalf("Failed to get folder statistics: %v", err)
	}
	fmt.Printf("/archive now holds %d vectors\n", stats.VectorCount)

	// 4. Demonstrate index type switching
	fmt.Println("\n=== 4. Changing Index Type ===")
	pgStore, err := postgres.NewStore(db, 384, false)
	if err != nil {
		log.Fatalf("Failed to open postgres store: %v", err)
	}

	fmt.Println("Switching to IVFFlat index...")
	err = pgStore.ChangeIndexType(ctx, "ivfflat", map[string]interface{}{
		"lists": 100,
	})
	if err != nil {
		log.Printf("Warning: Index change failed (this is okay for small datasets): %v", err)
	} else {
		fmt.Println("Successfully switched to IVFFlat index")
	}

	fmt.Println("Switching back to HNSW index...")
	err = pgStore.ChangeIndexType(ctx, "hnsw", map[string]interface{}{
		"m":               16,
		"ef_construction": 64,
	})
	if err != nil {
		log.Printf("Warning: Index change failed: %v", err)
	} else {
		fmt.Println("Successfully switched to HNSW index")
	}

	fmt.Println("\n=== Advanced Example Completed Successfully! ===")
	fmt.Println("\nKey features demonstrated:")
	fmt.Println("✓ pgvector-backed store via a custom store factory")
	fmt.Println("✓ Global text search")
	fmt.Println("✓ Folder-scoped search")
	fmt.Println("✓ Bulk folder reorganization")
	fmt.Println("✓ Index type switching (HNSW ↔ IVFFlat)")
}

func printResults(title string, results []*model.SearchResult) {
	fmt.Printf("\n%s - Found %d results:\n", title, len(results))
	for i, result := range results {
		if i >= 3 {
			break // Show only first 3
		}
		fmt.Printf("\n  Result %d:\n", i+1)
		fmt.Printf("    Score: %.4f\n", result.Score)
		fmt.Printf("    Folder: %s\n", result.Metadata.FolderPath)
		if text, ok := result.Metadata.Extra["text"].(string); ok {
			if len(text) > 80 {
				text = text[:80] + "..."
			}
			fmt.Printf("    Text: %s\n", text)
		}
	}
}
