package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/siherrmann/vecstore/model"
)

// Chunking errors. The messages are part of the public contract and
// surface verbatim to callers.
var (
	ErrInvalidChunkSize = errors.New("Invalid chunk size: must be greater than 0")
	ErrInvalidOverlap   = errors.New("Invalid overlap size: must be non-negative")
	ErrOverlapTooLarge  = errors.New("Overlap cannot exceed chunk size")
	ErrEmptyText        = errors.New("Cannot chunk empty text")
)

// wordsPerToken converts a token budget into a word budget
// (1 token is roughly 0.77 words, i.e. 1 word is roughly 1.3 tokens).
const wordsPerToken = 0.77

// maxChunkIterations is a hard safety cap against runaway chunk loops.
// The forward-progress guard is the primary termination condition.
const maxChunkIterations = 1000

// ChunkOptions configures how documents are split into chunks.
// ChunkSize and Overlap are given in tokens.
type ChunkOptions struct {
	ChunkSize        int
	Overlap          int
	SplitBySentence  bool
	SplitByParagraph bool
}

// DefaultChunkOptions returns the default word-window configuration.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		ChunkSize: 500,
		Overlap:   50,
	}
}

// Validate checks the chunk size and overlap configuration.
func (o ChunkOptions) Validate() error {
	if o.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if o.Overlap < 0 {
		return ErrInvalidOverlap
	}
	if o.Overlap >= o.ChunkSize {
		return ErrOverlapTooLarge
	}
	return nil
}

// NewChunker validates the options and returns the chunking strategy they
// select: paragraph window, sentence window or the default word window.
func NewChunker(opts ChunkOptions) (ChunkFunc, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch {
	case opts.SplitByParagraph:
		return paragraphWindowChunker(opts), nil
	case opts.SplitBySentence:
		return sentenceWindowChunker(opts), nil
	default:
		return wordWindowChunker(opts), nil
	}
}

// tokensToWords converts a token budget into a word budget, at least one word.
func tokensToWords(tokens int) int {
	words := int(float64(tokens) * wordsPerToken)
	if words < 1 {
		words = 1
	}
	return words
}

// estimateTokenCount estimates the token count of a word count.
func estimateTokenCount(wordCount int) int {
	return int(math.Ceil(float64(wordCount) * 1.3))
}

func newChunk(doc *model.Document, index int, text string, startOffset, endOffset, wordCount int) model.Chunk {
	return model.Chunk{
		ID:   fmt.Sprintf("%s_chunk_%d", doc.ID, index),
		Text: text,
		Metadata: model.ChunkMetadata{
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			DocumentType: doc.Type,
			Index:        index,
			StartOffset:  startOffset,
			EndOffset:    endOffset,
			TokenCount:   estimateTokenCount(wordCount),
		},
	}
}

// locateOffset finds the character offset of token in text, anchored by an
// approximate estimate. The estimate is derived from joined word lengths
// and never overshoots the real position, so searching forward from it
// lands on the right occurrence for all but pathologically repetitive
// input. If the token cannot be found the estimate itself is returned.
func locateOffset(text string, token string, estimate int) int {
	if estimate < 0 {
		estimate = 0
	}
	if estimate > len(text) {
		estimate = len(text)
	}
	if idx := strings.Index(text[estimate:], token); idx >= 0 {
		return estimate + idx
	}
	if idx := strings.Index(text, token); idx >= 0 {
		return idx
	}
	return estimate
}

// wordWindowChunker slides a fixed-size word window across the text,
// advancing by the window size minus the overlap each step.
func wordWindowChunker(opts ChunkOptions) ChunkFunc {
	return func(text string, doc *model.Document) ([]model.Chunk, error) {
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyText
		}

		words := strings.Fields(text)
		chunkWordCount := tokensToWords(opts.ChunkSize)
		overlapWordCount := int(float64(opts.Overlap) * wordsPerToken)

		// Short documents become exactly one chunk spanning the whole text.
		if len(words) <= chunkWordCount {
			return []model.Chunk{newChunk(doc, 0, text, 0, len(text), len(words))}, nil
		}

		step := chunkWordCount - overlapWordCount
		if step < 1 {
			step = 1
		}

		// Cumulative joined word lengths for offset estimates. Joined
		// lengths undershoot real offsets whenever the source text has
		// more than one whitespace character between words, which is
		// exactly what locateOffset needs.
		estimates := make([]int, len(words)+1)
		for i, w := range words {
			estimates[i+1] = estimates[i] + len(w) + 1
		}

		var chunks []model.Chunk
		index := 0
		for start := 0; start < len(words); start += step {
			end := start + chunkWordCount
			if end > len(words) {
				end = len(words)
			}

			content := strings.Join(words[start:end], " ")
			startOffset := locateOffset(text, words[start], estimates[start])
			endOffset := startOffset + len(content)
			if endOffset > len(text) {
				endOffset = len(text)
			}

			chunks = append(chunks, newChunk(doc, index, content, startOffset, endOffset, end-start))
			index++

			// The step guard above keeps the next start past the current
			// one, so the window always moves forward. The iteration cap
			// is a safety net only.
			if end == len(words) || index >= maxChunkIterations {
				break
			}
		}

		return chunks, nil
	}
}

// splitSentences splits text into trimmed sentences on ., ! and ?.
// NUL as the split sentinel cannot collide with characters in real text,
// so literal pipes and other punctuation survive intact.
func splitSentences(text string) []string {
	const sentinel = "\x00"
	text = strings.ReplaceAll(text, "! ", "!"+sentinel)
	text = strings.ReplaceAll(text, "? ", "?"+sentinel)
	text = strings.ReplaceAll(text, ". ", "."+sentinel)

	parts := strings.Split(text, sentinel)
	var sentences []string
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// splitParagraphs splits text into trimmed paragraphs on blank lines.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var paragraphs []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// sentenceWindowChunker accumulates whole sentences until the word budget
// is met, then flushes a chunk and seeds the next buffer with the last
// sentence. Offsets are approximate, computed from buffer lengths rather
// than re-located in the source text.
func sentenceWindowChunker(opts ChunkOptions) ChunkFunc {
	return func(text string, doc *model.Document) ([]model.Chunk, error) {
		return unitWindowChunks(splitSentences(text), text, doc, opts)
	}
}

// paragraphWindowChunker works like sentenceWindowChunker with paragraphs
// as the accumulation unit, seeding the next buffer with the last
// paragraph.
func paragraphWindowChunker(opts ChunkOptions) ChunkFunc {
	return func(text string, doc *model.Document) ([]model.Chunk, error) {
		return unitWindowChunks(splitParagraphs(text), text, doc, opts)
	}
}

// unitWindowChunks implements the shared accumulate-and-flush loop for the
// sentence and paragraph strategies.
func unitWindowChunks(units []string, text string, doc *model.Document, opts ChunkOptions) ([]model.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	wordBudget := tokensToWords(opts.ChunkSize)

	var chunks []model.Chunk
	var buffer []string
	bufferWords := 0
	freshUnits := 0
	index := 0
	pos := 0

	flush := func() {
		content := strings.Join(buffer, " ")
		startOffset := pos
		endOffset := pos + len(content)
		wordCount := bufferWords

		chunks = append(chunks, newChunk(doc, index, content, startOffset, endOffset, wordCount))
		index++

		// Seed the next buffer with the last unit so consecutive chunks
		// share a semantic boundary.
		seed := buffer[len(buffer)-1]
		pos = endOffset - len(seed)
		buffer = []string{seed}
		bufferWords = len(strings.Fields(seed))
		freshUnits = 0
	}

	for _, unit := range units {
		buffer = append(buffer, unit)
		bufferWords += len(strings.Fields(unit))
		freshUnits++

		if bufferWords >= wordBudget {
			flush()
		}
	}

	// Flush the remainder, unless the buffer only holds the overlap seed
	// of an already emitted chunk.
	if freshUnits > 0 || len(chunks) == 0 {
		content := strings.Join(buffer, " ")
		chunks = append(chunks, newChunk(doc, index, content, pos, pos+len(content), bufferWords))
	}

	return chunks, nil
}
