package generation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicOptions configures the Messages API backend.
type AnthropicOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Anthropic sends prompts through the Anthropic Messages API.
type Anthropic struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	hasKey  bool
}

const (
	anthropicProviderName = "anthropic"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
)

// NewAnthropic builds the backend. SDK retries are disabled so a failed call
// surfaces immediately.
func NewAnthropic(opts AnthropicOptions) *Anthropic {
	key := strings.TrimSpace(opts.APIKey)
	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = groqDefaultTimeout
	}
	return &Anthropic{
		client:  anthropic.NewClient(reqOpts...),
		model:   coalesce(opts.Model, defaultAnthropicModel),
		timeout: timeout,
		hasKey:  key != "",
	}
}

func (a *Anthropic) Name() string { return anthropicProviderName }

func (a *Anthropic) Generate(ctx context.Context, call Call) (string, error) {
	if !a.hasKey {
		return "", misconfigured(anthropicProviderName, "ANTHROPIC_API_KEY is not set")
	}
	if strings.TrimSpace(call.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := make([]anthropic.MessageParam, 0, len(call.History)+1)
	for _, m := range call.History {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if normalizeRole(m.Role) == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(call.Prompt)))

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(call.MaxTokens),
		System:      []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages:    messages,
		Temperature: anthropic.Float(call.Temperature),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", statusError(anthropicProviderName, apiErr.StatusCode, err)
		}
		return "", transportError(anthropicProviderName, err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", &Error{Kind: KindEmptyResponse, Provider: anthropicProviderName, Err: errors.New("no text blocks")}
	}
	return out, nil
}

var _ Generator = (*Anthropic)(nil)
