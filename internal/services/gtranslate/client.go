// Package gtranslate translates text through the public Google Translate
// web endpoint. Long inputs are chunked on sentence boundaries to stay
// under the service's per-request character limit.
package gtranslate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "GlobalDub/0.1.0"

// Client talks to the translate_a/single endpoint.
type Client struct {
	endpoint      string
	maxChunkChars int
	httpClient    *http.Client
}

// Options configures a translation client.
type Options struct {
	Endpoint string
	// MaxChunkChars bounds the characters sent per request.
	MaxChunkChars int
	Timeout       time.Duration
}

// NewClient builds a translation client.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = "https://translate.googleapis.com/translate_a/single"
	}
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = 4500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		endpoint:      opts.Endpoint,
		maxChunkChars: opts.MaxChunkChars,
		httpClient:    &http.Client{Timeout: opts.Timeout},
	}
}

// Translate converts text from sourceLang (or "auto") into targetLang.
// Inputs over the chunk limit are split on sentence boundaries and the
// translated chunks rejoined with single spaces.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if targetLang == "" {
		return "", fmt.Errorf("translate: target language required")
	}
	if sourceLang == "" {
		sourceLang = "auto"
	}

	if len(text) <= c.maxChunkChars {
		return c.translateChunk(ctx, text, sourceLang, targetLang)
	}

	chunks := SplitSentences(text, c.maxChunkChars)
	translated := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		out, err := c.translateChunk(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			return "", err
		}
		translated = append(translated, out)
	}
	return strings.Join(translated, " "), nil
}

func (c *Client) translateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", sourceLang)
	query.Set("tl", targetLang)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("translate endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}
	return parseResponse(body)
}

// parseResponse unpacks the endpoint's nested-array payload. The first
// element is a list of sentence entries whose first field holds the
// translated text.
func parseResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parse translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("translate response is empty")
	}

	var sentences [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &sentences); err != nil {
		return "", fmt.Errorf("parse translate sentences: %w", err)
	}

	var sb strings.Builder
	for _, sentence := range sentences {
		if len(sentence) == 0 {
			continue
		}
		var fragment string
		if err := json.Unmarshal(sentence[0], &fragment); err != nil {
			continue
		}
		sb.WriteString(fragment)
	}
	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("translate response holds no text")
	}
	return result, nil
}

// SplitSentences breaks text into chunks no longer than max characters,
// preferring sentence boundaries (., !, ? followed by whitespace). A single
// sentence over the limit becomes its own oversized chunk rather than being
// cut mid-word.
func SplitSentences(text string, max int) []string {
	sentences := splitAfterTerminators(text)
	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence)+1 >= max {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

func splitAfterTerminators(text string) []string {
	var parts []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' {
			// Consume the run of terminators, then break on whitespace.
			j := i + 1
			for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
				j++
			}
			if j < len(runes) && (runes[j] == ' ' || runes[j] == '\n' || runes[j] == '\t') {
				part := strings.TrimSpace(string(runes[start:j]))
				if part != "" {
					parts = append(parts, part)
				}
				start = j + 1
				i = j
			}
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}
