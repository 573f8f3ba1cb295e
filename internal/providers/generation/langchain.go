package generation

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainOptions configures the langchaingo OpenAI-compatible backend.
type LangChainOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// LangChain routes prompts through a langchaingo OpenAI model. Any
// OpenAI-compatible endpoint works, including Groq's.
type LangChain struct {
	llm     llms.Model
	timeout time.Duration
}

const (
	langChainProviderName = "langchain"
	defaultLangChainModel = "gpt-4o-mini"
)

var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

// NewLangChain builds the backend. A missing API key yields a backend that
// reports KindMisconfigured on every call.
func NewLangChain(opts LangChainOptions) (*LangChain, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = groqDefaultTimeout
	}
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return &LangChain{timeout: timeout}, nil
	}
	llmOpts := []openai.Option{
		openai.WithToken(key),
		openai.WithModel(coalesce(opts.Model, defaultLangChainModel)),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(base))
	}
	if opts.HTTPClient != nil {
		llmOpts = append(llmOpts, openai.WithHTTPClient(opts.HTTPClient))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, err
	}
	return &LangChain{llm: llm, timeout: timeout}, nil
}

func (l *LangChain) Name() string { return langChainProviderName }

func (l *LangChain) Generate(ctx context.Context, call Call) (string, error) {
	if l.llm == nil {
		return "", misconfigured(langChainProviderName, "OPENAI_API_KEY is not set")
	}
	if strings.TrimSpace(call.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	content := make([]llms.MessageContent, 0, len(call.History)+2)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt))
	for _, m := range call.History {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgType := llms.ChatMessageTypeHuman
		if normalizeRole(m.Role) == RoleAssistant {
			msgType = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(msgType, m.Content))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, call.Prompt))

	resp, err := l.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(call.MaxTokens),
		llms.WithTemperature(call.Temperature),
	)
	if err != nil {
		if m := statusCodePattern.FindStringSubmatch(err.Error()); m != nil {
			status, _ := strconv.Atoi(m[1])
			return "", statusError(langChainProviderName, status, err)
		}
		return "", transportError(langChainProviderName, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &Error{Kind: KindEmptyResponse, Provider: langChainProviderName, Err: errors.New("no choices")}
	}
	out := strings.TrimSpace(resp.Choices[0].Content)
	if out == "" {
		return "", &Error{Kind: KindEmptyResponse, Provider: langChainProviderName, Err: errors.New("empty content")}
	}
	return out, nil
}

var _ Generator = (*LangChain)(nil)
