// Package tokens counts and trims text by model token budget using
// tiktoken vocabularies. Page content fed to summarization prompts is
// truncated here so a single long article cannot blow the context
// window.
package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// charsPerToken approximates English prose when no codec is available
// for a model.
const charsPerToken = 4

// Counter measures text in model tokens. Codecs are cached per
// encoding; the cache is safe for concurrent use.
type Counter struct {
	mu     sync.RWMutex
	codecs map[tokenizer.Encoding]tokenizer.Codec
}

// NewCounter returns a Counter with an empty codec cache.
func NewCounter() *Counter {
	return &Counter{codecs: make(map[tokenizer.Encoding]tokenizer.Codec)}
}

// codec resolves the tokenizer for a model, trying the exact model
// first and falling back to its encoding family.
func (c *Counter) codec(model string) (tokenizer.Codec, error) {
	if codec, err := tokenizer.ForModel(tokenizer.Model(model)); err == nil {
		return codec, nil
	}

	encoding := encodingFor(model)

	c.mu.RLock()
	cached, ok := c.codecs[encoding]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("no tokenizer for encoding %s: %w", encoding, err)
	}

	c.mu.Lock()
	c.codecs[encoding] = codec
	c.mu.Unlock()

	return codec, nil
}

// Count returns the number of tokens in text for the given model. When
// no codec exists for the model it estimates from character length.
func (c *Counter) Count(model, text string) (int, error) {
	codec, err := c.codec(model)
	if err != nil {
		return (len(text) + charsPerToken - 1) / charsPerToken, nil
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}
	return len(ids), nil
}

// Truncate returns text cut to at most limit tokens for the given
// model, with an ellipsis appended when anything was dropped. A
// non-positive limit returns text unchanged.
func (c *Counter) Truncate(model, text string, limit int) string {
	if limit <= 0 || text == "" {
		return text
	}
	codec, err := c.codec(model)
	if err != nil {
		return truncateByChars(text, limit)
	}
	ids, _, err := codec.Encode(text)
	if err != nil || len(ids) <= limit {
		return text
	}
	head, err := codec.Decode(ids[:limit])
	if err != nil {
		return truncateByChars(text, limit)
	}
	return head + "..."
}

// truncateByChars approximates a token cut at limit*charsPerToken
// characters, never splitting a rune.
func truncateByChars(text string, limit int) string {
	max := limit * charsPerToken
	if len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// encodingFor maps a model name to its encoding family. Newer OpenAI
// models use o200k_base; the GPT-4 and 3.5 generations use
// cl100k_base.
func encodingFor(model string) tokenizer.Encoding {
	model = strings.ToLower(model)
	switch {
	case strings.HasPrefix(model, "gpt-4o"),
		strings.HasPrefix(model, "gpt-4.1"),
		strings.HasPrefix(model, "gpt-5"),
		strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"),
		strings.HasPrefix(model, "o4"):
		return tokenizer.O200kBase
	case strings.HasPrefix(model, "gpt-4"), strings.HasPrefix(model, "gpt-3.5"):
		return tokenizer.Cl100kBase
	default:
		return tokenizer.O200kBase
	}
}
