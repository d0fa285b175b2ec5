package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNoData = errors.New("data not found")

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Groq is an OpenAI-compatible chat completion client.
type Groq struct {
	http  *resty.Client
	model string
}

func NewGroq(baseURL, apiKey, model string) (*Groq, error) {
	if apiKey == "" {
		return nil, errors.New("GROQ_API_KEY is not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(2*time.Minute).
		SetAuthToken(apiKey)
	return &Groq{http: client, model: model}, nil
}

// Complete sends a system and a user message and returns the first choice,
// trimmed. The reply is constrained to a JSON object.
func (g *Groq) Complete(ctx context.Context, system, user string) (string, error) {
	var out chatResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: g.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			ResponseFormat: map[string]string{"type": "json_object"},
		}).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("chat completion status %d", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", ErrNoData
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
