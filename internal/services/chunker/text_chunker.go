package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/ragkit/internal/models"
)

// DefaultSeparators split from coarse to fine: paragraphs, lines, sentences, words
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// TextChunker splits text into chunks of at most MaxTokens tokens,
// preferring the coarsest separator that makes each piece fit
type TextChunker struct {
	tokenizer  *Tokenizer
	maxTokens  int
	separators []string
}

// NewTextChunker creates a chunker. maxTokens <= 0 disables splitting.
func NewTextChunker(tokenizer *Tokenizer, maxTokens int) *TextChunker {
	return &TextChunker{
		tokenizer:  tokenizer,
		maxTokens:  maxTokens,
		separators: DefaultSeparators,
	}
}

// MaxTokens returns the configured chunk budget
func (c *TextChunker) MaxTokens() int {
	return c.maxTokens
}

// ChunkText splits text into trimmed, non-empty chunks in document order
func (c *TextChunker) ChunkText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if c.maxTokens <= 0 {
		return []string{text}
	}
	return c.chunk(text, 0)
}

// ChunkArtifact splits a text artifact into text artifacts named after the source
func (c *TextChunker) ChunkArtifact(artifact *models.TextArtifact) []*models.TextArtifact {
	chunks := c.ChunkText(artifact.Text())
	result := make([]*models.TextArtifact, 0, len(chunks))
	for _, chunk := range chunks {
		result = append(result, models.NewTextArtifact(chunk, models.WithArtifactName(artifact.Name())))
	}
	return result
}

func (c *TextChunker) chunk(text string, level int) []string {
	if c.tokenizer.CountTokens(text) <= c.maxTokens {
		return []string{text}
	}

	if level >= len(c.separators) {
		// no separator left; hard cut on token boundaries
		var chunks []string
		for text != "" {
			head := c.tokenizer.Truncate(text, c.maxTokens)
			if head == "" {
				// a single rune wider than the budget still has to move forward
				_, size := utf8.DecodeRuneInString(text)
				head = text[:size]
			}
			if !strings.HasPrefix(text, head) {
				break
			}
			if s := strings.TrimSpace(head); s != "" {
				chunks = append(chunks, s)
			}
			text = text[len(head):]
		}
		return chunks
	}

	separator := c.separators[level]
	parts := strings.Split(text, separator)
	if len(parts) == 1 {
		return c.chunk(text, level+1)
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for i, part := range parts {
		piece := part
		if i < len(parts)-1 {
			// keep sentence punctuation with its sentence
			piece += strings.TrimSpace(separator)
		}

		candidate := current.String()
		if candidate != "" {
			candidate += joiner(separator)
		}
		candidate += piece

		if c.tokenizer.CountTokens(candidate) <= c.maxTokens {
			current.Reset()
			current.WriteString(candidate)
			continue
		}

		flush()
		if c.tokenizer.CountTokens(piece) <= c.maxTokens {
			current.WriteString(piece)
			continue
		}
		chunks = append(chunks, c.chunk(strings.TrimSpace(piece), level+1)...)
	}
	flush()

	return chunks
}

// joiner returns the whitespace that re-joins pieces split on separator
func joiner(separator string) string {
	switch separator {
	case "\n\n", "\n":
		return separator
	default:
		return " "
	}
}
