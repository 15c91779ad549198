package model

import (
	"os"
	"path/filepath"
	"strings"
)

// Document represents a source document before chunking.
// Content is the already-extracted plain text; extraction from binary
// formats (pdf, docx, images) happens outside this library.
type Document struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     DocumentType `json:"type"`
	Content  string       `json:"content,omitempty"`
	Metadata Metadata     `json:"metadata,omitempty"`
}

// NewDocumentFromFile reads a plain text file and creates a Document.
// The name defaults to the filename, the id to the filename without
// extension and the type is inferred from the extension (txt if unknown).
func NewDocumentFromFile(filePath string, metadata Metadata) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(filePath)
	id := filename[:len(filename)-len(filepath.Ext(filename))]
	if id == "" {
		id = filename
	}

	return &Document{
		ID:       id,
		Name:     filename,
		Type:     DocumentTypeFromExtension(filepath.Ext(filename)),
		Content:  string(content),
		Metadata: metadata,
	}, nil
}

// DocumentTypeFromExtension maps a file extension (with or without the
// leading dot) to a DocumentType, defaulting to txt.
func DocumentTypeFromExtension(ext string) DocumentType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "md", "markdown":
		return DocumentTypeMd
	case "html", "htm":
		return DocumentTypeHTML
	case "pdf":
		return DocumentTypePDF
	case "docx":
		return DocumentTypeDocx
	case "png":
		return DocumentTypePNG
	case "jpeg", "jpg":
		return DocumentTypeJPEG
	case "webp":
		return DocumentTypeWebP
	case "gif":
		return DocumentTypeGIF
	default:
		return DocumentTypeTxt
	}
}
