// Package ai wraps the external AI provider used for resume parsing. The
// provider is an opaque collaborator: calls carry a bounded timeout and
// every failure degrades to an explicit ParseFailed result instead of
// blocking or erroring the request that triggered it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether the provider is configured. When false, AI
// features degrade; the core never depends on them.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.baseURL != ""
}

// ParsedResume holds the structured fields extracted from a resume. Every
// field is optional and explicitly so; a missing field stays nil rather
// than silently becoming empty.
type ParsedResume struct {
	FullName *string  `json:"full_name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Summary  *string  `json:"summary,omitempty"`
}

// ParseResult is the tagged outcome of a parse call: either Parsed with a
// resume, or not parsed with a reason.
type ParseResult struct {
	Parsed     bool          `json:"parsed"`
	Resume     *ParsedResume `json:"resume,omitempty"`
	FailReason string        `json:"fail_reason,omitempty"`
}

func failed(reason string) ParseResult {
	return ParseResult{Parsed: false, FailReason: reason}
}

// ParseResume sends the resume text to the provider. Provider errors,
// timeouts and malformed responses all come back as a ParseFailed result;
// the caller decides whether to store it or retry later.
func (c *Client) ParseResume(ctx context.Context, resumeText string) ParseResult {
	if !c.Enabled() {
		return failed("ai provider not configured")
	}

	payload, err := json.Marshal(map[string]string{"text": resumeText})
	if err != nil {
		return failed(fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/resume/parse", bytes.NewReader(payload))
	if err != nil {
		return failed(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(fmt.Sprintf("provider unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failed(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	var parsed ParsedResume
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return failed(fmt.Sprintf("decode response: %v", err))
	}

	return ParseResult{Parsed: true, Resume: &parsed}
}
