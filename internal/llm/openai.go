package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultSummaryModel  = openai.GPT4oMini
	defaultSummaryTokens = 900
	defaultTimeout       = 60 * time.Second

	// Low temperature keeps the distillation faithful to the transcript.
	summaryTemperature = 0.3
)

// OpenAIProvider generates clean summaries through the Chat Completions API.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewOpenAIProvider builds a provider from the resolved config. Model,
// token cap and timeout fall back to defaults here so Summarize never has
// to re-resolve them.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cc.BaseURL = config.BaseURL
	}

	p := &OpenAIProvider{
		client:    openai.NewClientWithConfig(cc),
		model:     config.Model,
		maxTokens: config.MaxTokens,
		timeout:   time.Duration(config.Timeout) * time.Second,
	}
	if p.model == "" {
		p.model = defaultSummaryModel
	}
	if p.maxTokens == 0 {
		p.maxTokens = defaultSummaryTokens
	}
	if p.timeout == 0 {
		p.timeout = defaultTimeout
	}
	return p, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable probes the API so key or endpoint problems surface before a
// batch starts burning requests.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Summarize distills one transcript into a clean summary.
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
		MaxTokens:   maxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &SummarizeResponse{
		Summary:    strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
