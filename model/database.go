package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DatabaseType distinguishes the kinds of logical containers the registry
// tracks.
type DatabaseType string

const (
	DatabaseTypeVector DatabaseType = "vector"
	DatabaseTypeGraph  DatabaseType = "graph"
)

// Registry errors. The messages are part of the public contract and
// surface verbatim to callers.
var (
	ErrDatabaseExists   = errors.New("Database already exists")
	ErrDatabaseNotFound = errors.New("Database not found")
)

// DatabaseInfo is the registry entry for a named logical container holding
// a set of vector records.
type DatabaseInfo struct {
	Name        string       `json:"name"`
	RID         uuid.UUID    `json:"rid"`
	Type        DatabaseType `json:"type"`
	Owner       string       `json:"owner,omitempty"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
