package model

// DocumentType identifies the original format of a source document.
// Text extraction from binary formats happens outside this library; the
// type is carried through as provenance on every chunk.
type DocumentType string

const (
	DocumentTypeTxt  DocumentType = "txt"
	DocumentTypeMd   DocumentType = "md"
	DocumentTypeHTML DocumentType = "html"
	DocumentTypePDF  DocumentType = "pdf"
	DocumentTypeDocx DocumentType = "docx"
	DocumentTypePNG  DocumentType = "png"
	DocumentTypeJPEG DocumentType = "jpeg"
	DocumentTypeWebP DocumentType = "webp"
	DocumentTypeGIF  DocumentType = "gif"
)

// ChunkMetadata carries positional and provenance information for a chunk.
// TokenCount is an estimate (word count x 1.3, rounded up), not exact
// tokenizer output.
type ChunkMetadata struct {
	DocumentID   string       `json:"document_id"`
	DocumentName string       `json:"document_name"`
	DocumentType DocumentType `json:"document_type"`
	Index        int          `json:"index"`
	StartOffset  int          `json:"start_offset"`
	EndOffset    int          `json:"end_offset"`
	TokenCount   int          `json:"token_count"`
}

// Chunk is a contiguous slice of a document's text, sized for independent
// embedding. Chunks are created in one batch per document and are immutable
// thereafter; re-chunking regenerates them.
type Chunk struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}
