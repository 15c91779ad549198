package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed vectors.sql
var vectorsSQL string

// Function list for verification
var VectorsFunctions = []string{
	"init_vectors",
	"upsert_vector",
	"select_folders",
	"count_vectors",
	"count_vectors_in_folder",
	"select_vectors_by_similarity",
	"select_vectors_by_similarity_in_folder",
	"update_vector_folder",
	"move_folder_contents",
	"update_vector_metadata",
	"delete_vectors_by_filter",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadVectorsSql loads vector-related SQL functions
func LoadVectorsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, VectorsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing vectors functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(vectorsSQL)
	if err != nil {
		return fmt.Errorf("error executing vectors SQL: %w", err)
	}

	exist, err := checkFunctions(db, VectorsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL vectors functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	return LoadVectorsSql(db, force)
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
