package model

import "errors"

// ErrVectorNotFound is returned when an operation references a vector id
// that does not exist in the store. The message is part of the public
// contract and surfaces verbatim to callers.
var ErrVectorNotFound = errors.New("Vector not found")

// VectorMetadata carries the metadata attached to a stored vector.
// FolderPath is the one load-bearing field; everything else lives in the
// open Extra map for caller-defined keys.
type VectorMetadata struct {
	FolderPath string   `json:"folder_path"`
	Extra      Metadata `json:"extra,omitempty"`
}

// Get returns a caller-defined metadata value by key.
func (m VectorMetadata) Get(key string) (interface{}, bool) {
	if m.Extra == nil {
		return nil, false
	}
	v, ok := m.Extra[key]
	return v, ok
}

// Clone returns a deep copy of the metadata so that callers holding a
// result cannot mutate stored records.
func (m VectorMetadata) Clone() VectorMetadata {
	clone := VectorMetadata{FolderPath: m.FolderPath}
	if m.Extra != nil {
		clone.Extra = make(Metadata, len(m.Extra))
		for k, v := range m.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// VectorRecord is one embedded unit stored in a named database.
// The id is caller-supplied and unique within the database; insertion of an
// existing id overwrites the stored record (upsert semantics).
type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// SearchResult is a single ranked match from a similarity search.
// Vector is only populated when the search was configured with
// IncludeVectors.
type SearchResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
	Vector   []float32      `json:"vector,omitempty"`
}
