package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/vecstore"
	"github.com/siherrmann/vecstore/model"
)

const sampleContent = `This is a sample document about vector databases.

Vector databases are designed to store and query high-dimensional embeddings.
They rank stored records by similarity to a query vector instead of exact matches.

PostgreSQL with the pgvector extension can be used to build powerful similarity search systems.
The pgvector extension provides vector columns, distance operators, and approximate indexes.

Organizing vectors into virtual folders allows scoped search and bulk reorganization
without duplicating the underlying records.`

func main() {
	// Create a vecstore with the default in-memory backend
	v, err := vecstore.NewVecStore(nil)
	if err != nil {
		log.Fatalf("Failed to create vecstore: %v", err)
	}
	defer v.Close()

	// Set up the default pipeline (word-window chunking + embeddings)
	if err := v.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Register a database to hold the vectors
	info, err := v.CreateDatabase("articles", model.DatabaseTypeVector, "basic_example", "sample article database")
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	fmt.Printf("Created database '%s' (RID: %s)\n", info.Name, info.RID)

	// Create document with content
	doc := &model.Document{
		ID:      "intro-vector-databases",
		Name:    "Introduction to Vector Databases",
		Type:    model.DocumentTypeTxt,
		Content: sampleContent,
		Metadata: model.Metadata{
			"author": "Example Author",
			"topic":  "vector databases",
		},
	}

	ctx := context.Background()

	// Process and insert document in one call
	fmt.Println("Ingesting document...")
	numChunks, err := v.ProcessAndInsertDocument(ctx, "articles", doc, "/documents")
	if err != nil {
		log.Fatalf("Failed to process and insert document: %v", err)
	}
	fmt.Printf("Inserted %d chunks into /documents\n", numChunks)

	// Perform a simple text search
	queryText := "What are vector databases?"

	fmt.Printf("\nQuerying: %s\n", queryText)

	results, err := v.SearchText(ctx, "articles", queryText, &model.SearchConfig{TopK: 5})
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	// Display results
	fmt.Printf("\nFound %d results:\n", len(results))
	for i, result := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Score: %.4f\n", result.Score)
		fmt.Printf("Folder: %s\n", result.Metadata.FolderPath)
		if text, ok := result.Metadata.Extra["text"].(string); ok {
			if len(text) > 80 {
				text = text[:80] + "..."
			}
			fmt.Printf("Text: %s\n", text)
		}
	}

	// Show the folder view
	folders, err := v.ListFolders(ctx, "articles")
	if err != nil {
		log.Fatalf("Failed to list folders: %v", err)
	}
	fmt.Printf("\nFolders: %v\n", folders)

	fmt.Println("\nBasic example completed successfully!")
}
