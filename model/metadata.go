package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/vecstore/helper"
)

// Metadata represents free-form caller-defined metadata. It is stored as
// JSONB by the Postgres vector store backend.
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal converts Metadata to JSON bytes
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes or Metadata to Metadata
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = Metadata(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}

// Merge returns a copy of m with all keys from other applied on top.
// Keys present in both maps take the value from other.
func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
