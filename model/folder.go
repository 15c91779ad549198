package model

import (
	"errors"
	"strings"
)

// RootFolderPath is the default folder for vectors inserted without an
// explicit folder path.
const RootFolderPath = "/"

// Folder path validation errors. The messages are part of the public
// contract and surface verbatim to callers.
var (
	ErrFolderPathEmpty         = errors.New("Folder path cannot be empty")
	ErrFolderPathNoSlashPrefix = errors.New("Folder path must start with /")
	ErrFolderPathTrailingSlash = errors.New("Folder path cannot end with /")
	ErrFolderPathDoubleSlash   = errors.New("Folder path cannot contain double slashes")
)

// ValidateFolderPath checks a virtual folder path against the path grammar:
// non-empty, starts with '/', no trailing '/' (the root path "/" is the
// single-character exception) and no consecutive slashes.
// Arbitrary depth is permitted.
func ValidateFolderPath(path string) error {
	if path == "" {
		return ErrFolderPathEmpty
	}
	if !strings.HasPrefix(path, "/") {
		return ErrFolderPathNoSlashPrefix
	}
	if path != RootFolderPath && strings.HasSuffix(path, "/") {
		return ErrFolderPathTrailingSlash
	}
	if strings.Contains(path, "//") {
		return ErrFolderPathDoubleSlash
	}
	return nil
}

// FolderStatistics describes the vectors referencing a single folder path.
// Folders are derived from vector metadata, not reified objects, so a folder
// nobody references reports a count of zero instead of an error.
type FolderStatistics struct {
	FolderPath  string `json:"folder_path"`
	VectorCount int    `json:"vector_count"`
}
