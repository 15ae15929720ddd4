package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/astralnotes/astral-backend/internal/platform/envutil"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

// Client sends one prompt to the hosted chat-completion endpoint and returns
// the cleaned completion text. One synchronous attempt per call: no retry, no
// streaming.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := envutil.String("GROQ_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GROQ_API_KEY")
	}

	baseURL := strings.TrimRight(envutil.String("GROQ_BASE_URL", "https://api.groq.com"), "/")
	model := envutil.String("GROQ_MODEL", "deepseek-r1-distill-llama-70b")
	timeoutSec := envutil.Int("GROQ_TIMEOUT_SECONDS", 120)

	return &client{
		log:        log.With("client", "GroqClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/openai/v1/chat/completions",
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read chat completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Error bodies are not always JSON (a gateway may hand back HTML), so
		// the structured message is best-effort.
		msg := strings.TrimSpace(string(body))
		var failure chatCompletionResponse
		if err := json.Unmarshal(body, &failure); err == nil && failure.Error != nil {
			msg = failure.Error.Message
		}
		return "", fmt.Errorf("chat completion returned %d: %s", resp.StatusCode, msg)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.log.Debug("chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return StripReasoning(parsed.Choices[0].Message.Content), nil
}

// reasoningBlockRE matches a paired reasoning block, case-insensitively and
// across lines. Nested markers are not handled; the model does not emit them.
var reasoningBlockRE = regexp.MustCompile(`(?is)<think>.*?</think>`)

// StripReasoning removes the model's internal chain-of-thought spans and trims
// surrounding whitespace, so callers only ever see the visible answer.
func StripReasoning(text string) string {
	return strings.TrimSpace(reasoningBlockRE.ReplaceAllString(text, ""))
}
