package chunker

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is compatible with the token accounting of current Gemini/Claude/GPT models
// closely enough for budget trimming
const DefaultEncoding = "cl100k_base"

func init() {
	// BPE ranks ship inside the binary; no download at runtime
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Tokenizer counts and truncates text in tokens
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

var (
	defaultTokenizer     *Tokenizer
	defaultTokenizerOnce sync.Once
	defaultTokenizerErr  error
)

// DefaultTokenizer returns the shared cl100k_base tokenizer, loading it once
func DefaultTokenizer() (*Tokenizer, error) {
	defaultTokenizerOnce.Do(func() {
		defaultTokenizer, defaultTokenizerErr = NewTokenizer(DefaultEncoding)
	})
	return defaultTokenizer, defaultTokenizerErr
}

// NewTokenizer loads the named encoding
func NewTokenizer(encoding string) (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %s: %w", encoding, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the number of tokens in text
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.encoding.Encode(text, nil, nil))
}

// Truncate returns the longest token prefix of text that fits in maxTokens.
// Tokens are byte-level, so a cut inside a multi-byte rune is trimmed back
// to the last whole rune; the result is always a valid UTF-8 prefix of text.
func (t *Tokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 || text == "" {
		return ""
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	prefix := t.encoding.Decode(tokens[:maxTokens])
	for len(prefix) > 0 && !utf8.ValidString(prefix) {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
