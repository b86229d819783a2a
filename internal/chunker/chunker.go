// Package chunker splits document text into overlapping segments at
// sentence and word boundaries.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Boundary snap thresholds, as fractions of the chunk size. A sentence
// terminator is honoured only past 70% of the window, a whitespace break
// only past 80%; otherwise the chunk is hard-cut.
const (
	sentenceBoundaryFraction = 0.7
	wordBoundaryFraction     = 0.8
)

// Chunker splits text into bounded, overlapping chunks. It is deterministic
// and side-effect-free; the zero configuration uses the defaults above.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits text into non-empty segments of at most the chunk size,
// sharing the configured overlap with their neighbours. Text that already
// fits in one chunk is returned as a single element, unmodified.
func (c *Chunker) Chunk(text string) []string {
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	estimated := len(text)/(c.chunkSize-c.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		} else {
			end = c.snapBoundary(text, start, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - c.overlap
		if next <= start {
			// Snapped boundary landed inside the overlap; move past it.
			next = end
		}
		start = next
	}

	return chunks
}

// snapBoundary pulls the window end back to the last sentence terminator
// past 70% of the window, else the last whitespace past 80%, else leaves
// the hard cut in place.
func (c *Chunker) snapBoundary(text string, start, end int) int {
	window := text[start:end]

	sentenceEnd := lastSentenceEnd(window)
	if sentenceEnd >= 0 && float64(sentenceEnd) > float64(c.chunkSize)*sentenceBoundaryFraction {
		return start + sentenceEnd + 1
	}

	if space := strings.LastIndexAny(window, " \t\n"); space >= 0 &&
		float64(space) > float64(c.chunkSize)*wordBoundaryFraction {
		return start + space
	}

	return end
}

// lastSentenceEnd returns the index of the last sentence terminator in s,
// or -1 if none is present.
func lastSentenceEnd(s string) int {
	return strings.LastIndexAny(s, ".!?")
}
