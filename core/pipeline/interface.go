package pipeline

import (
	"github.com/siherrmann/vecstore/model"
)

// ChunkFunc is a function that splits a document's text into ordered,
// overlapping chunks sized for independent embedding.
type ChunkFunc func(text string, doc *model.Document) ([]model.Chunk, error)

// EmbedFunc is a function that generates a fixed-dimension embedding for text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline combines chunking and embedding functions
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}

// Chunk splits a document's content into chunks without embedding them.
func (p *Pipeline) Chunk(doc *model.Document) ([]model.Chunk, error) {
	return p.Chunker(doc.Content, doc)
}

// Process chunks a document and embeds every chunk, returning vector
// records ready for insertion under the given folder path. Chunk
// provenance is carried in the record's extra metadata together with the
// chunk text itself.
func (p *Pipeline) Process(doc *model.Document, folderPath string) ([]*model.VectorRecord, error) {
	if err := model.ValidateFolderPath(folderPath); err != nil {
		return nil, err
	}

	chunks, err := p.Chunker(doc.Content, doc)
	if err != nil {
		return nil, err
	}

	records := make([]*model.VectorRecord, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := p.Embedder(chunk.Text)
		if err != nil {
			return nil, err
		}

		records = append(records, &model.VectorRecord{
			ID:     chunk.ID,
			Values: embedding,
			Metadata: model.VectorMetadata{
				FolderPath: folderPath,
				Extra: model.Metadata{
					"text":          chunk.Text,
					"document_id":   chunk.Metadata.DocumentID,
					"document_name": chunk.Metadata.DocumentName,
					"document_type": string(chunk.Metadata.DocumentType),
					"chunk_index":   chunk.Metadata.Index,
					"start_offset":  chunk.Metadata.StartOffset,
					"end_offset":    chunk.Metadata.EndOffset,
					"token_count":   chunk.Metadata.TokenCount,
				},
			},
		})
	}

	return records, nil
}
