package model

// SearchConfig represents configuration for a similarity search query.
type SearchConfig struct {
	// TopK is the maximum number of results to return.
	TopK int `json:"top_k"`
	// Threshold filters out results scoring below the given minimum
	// similarity. Zero disables the filter.
	Threshold float64 `json:"threshold,omitempty"`
	// IncludeVectors controls whether raw vector values are copied into
	// the result payload. Disable on large result sets to reduce memory.
	IncludeVectors bool `json:"include_vectors"`
}

// DefaultSearchConfig returns a sensible default configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		TopK:           5,
		Threshold:      0,
		IncludeVectors: true,
	}
}
