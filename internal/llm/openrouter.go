package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/driftcheck/engine/pkg/types"
)

const (
	openRouterDefaultBaseURL = "https://openrouter.ai/api/v1"
	defaultMaxTokens         = 4096

	refererHeader = "https://driftcheck.dev"
	titleHeader   = "driftcheck"
)

// OpenRouterConfig configures an OpenRouterProvider.
type OpenRouterConfig struct {
	APIKey        string
	BaseURL       string
	DefaultModel  string
	AllowedModels []string
	// Timeout bounds a single HTTP call when the caller's context carries
	// no earlier deadline.
	Timeout time.Duration
}

// OpenRouterProvider calls the OpenRouter chat-completions API.
//
// The underlying http.Client connection pool is the only shared mutable
// state; it is sized so that concurrent jobs never queue on each other.
type OpenRouterProvider struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	allowed map[string]struct{}
	timeout time.Duration
}

// NewOpenRouterProvider creates a provider for the given config.
// cfg.APIKey is required; cfg.BaseURL defaults to the OpenRouter endpoint.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter: APIKey is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterDefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedModels))
	for _, m := range cfg.AllowedModels {
		allowed[m] = struct{}{}
	}
	return &OpenRouterProvider{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 8,
			},
		},
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   cfg.DefaultModel,
		allowed: allowed,
		timeout: timeout,
	}, nil
}

func (p *OpenRouterProvider) Name() string         { return "openrouter" }
func (p *OpenRouterProvider) DefaultModel() string { return p.model }

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	// Temperature is a pointer so 0 is sent explicitly when requested.
	Temperature *float64 `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete submits one chat completion and maps every failure mode onto the
// error taxonomy. Each invocation issues exactly one outbound call; responses
// are never cached, so the identity and baseline paths query the service
// independently.
func (p *OpenRouterProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if len(req.Messages) == 0 {
		return nil, &types.ErrorInfo{Kind: types.ErrKindService, Status: 400, Message: "empty prompt"}
	}
	model := req.Model
	if model == "" {
		model = p.model
	}
	if len(p.allowed) > 0 {
		if _, ok := p.allowed[model]; !ok {
			return nil, &types.ErrorInfo{
				Kind:    types.ErrKindService,
				Status:  400,
				Message: fmt.Sprintf("model %q not in configured allow-list", model),
			}
		}
	}

	messages := req.Messages
	if req.SystemPrompt != "" {
		messages = append([]Message{{Role: "system", Content: req.SystemPrompt}}, messages...)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: &req.Temperature,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openrouter: marshal request: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("openrouter: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("HTTP-Referer", refererHeader)
	httpReq.Header.Set("X-Title", titleHeader)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
			return nil, &types.ErrorInfo{Kind: types.ErrKindTimeout, Message: err.Error()}
		}
		return nil, &types.ErrorInfo{Kind: types.ErrKindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.ErrorInfo{Kind: types.ErrKindTransport, Message: "read body: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		var parsed chatResponse
		if json.Unmarshal(payload, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, &types.ErrorInfo{Kind: types.ErrKindService, Status: resp.StatusCode, Message: msg}
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &types.ErrorInfo{Kind: types.ErrKindMalformedResponse, Message: "decode response: " + err.Error()}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, &types.ErrorInfo{Kind: types.ErrKindMalformedResponse, Message: "response missing message content"}
	}

	return &CompletionResponse{
		Content:      parsed.Choices[0].Message.Content,
		Model:        model,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
		DurationMS:   time.Since(start).Milliseconds(),
	}, nil
}
