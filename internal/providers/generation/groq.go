package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GroqOptions configures the OpenAI-compatible chat completions client.
type GroqOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	OnWarning  func(reason, detail string)
}

// Groq calls an OpenAI-compatible /chat/completions endpoint.
type Groq struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const (
	groqProviderName   = "groq"
	groqDefaultTimeout = 30 * time.Second
	defaultGroqModel   = "llama-3.1-8b-instant"
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

var groqModelCanonical = map[string]string{
	"llama-3.1-8b-instant":    "llama-3.1-8b-instant",
	"llama-3.3-70b-versatile": "llama-3.3-70b-versatile",
}

var groqModelAliases = map[string]string{
	"llama3-8b-8192":    "llama-3.1-8b-instant",
	"llama-3.1-8b":      "llama-3.1-8b-instant",
	"llama3.1-8b":       "llama-3.1-8b-instant",
	"llama-3-8b":        "llama-3.1-8b-instant",
	"llama3-70b-8192":   "llama-3.3-70b-versatile",
	"llama-3.1-70b":     "llama-3.3-70b-versatile",
	"llama-3.3-70b":     "llama-3.3-70b-versatile",
	"llama3.3-70b":      "llama-3.3-70b-versatile",
	"llama-3-70b":       "llama-3.3-70b-versatile",
	"llama-3.1-8b-fast": "llama-3.1-8b-instant",
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewGroq builds a Groq client. A missing API key is not an error here: the
// client reports KindMisconfigured on every call instead.
func NewGroq(opts GroqOptions) *Groq {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	modelInput := strings.TrimSpace(opts.Model)
	model, reason := normalizeGroqModel(modelInput)
	if reason != "" && opts.OnWarning != nil {
		opts.OnWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", coalesce(modelInput, defaultGroqModel), model))
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = groqDefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Groq{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

func (g *Groq) Name() string { return groqProviderName }

func (g *Groq) Generate(ctx context.Context, call Call) (string, error) {
	if g.apiKey == "" {
		return "", misconfigured(groqProviderName, "GROQ_API_KEY is not set")
	}
	if strings.TrimSpace(call.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	payload := chatRequest{
		Model:       g.model,
		Messages:    buildChatMessages(call),
		Temperature: call.Temperature,
		MaxTokens:   call.MaxTokens,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", &Error{Kind: KindMalformedResponse, Provider: groqProviderName, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", misconfigured(groqProviderName, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", transportError(groqProviderName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", statusError(groqProviderName, resp.StatusCode, errors.New(strings.TrimSpace(string(body))))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Kind: KindMalformedResponse, Provider: groqProviderName, Status: resp.StatusCode, Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &Error{Kind: KindEmptyResponse, Provider: groqProviderName, Status: resp.StatusCode, Err: errors.New("no choices")}
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Kind: KindEmptyResponse, Provider: groqProviderName, Status: resp.StatusCode, Err: errors.New("empty content")}
	}
	return text, nil
}

func buildChatMessages(call Call) []chatMessage {
	msgs := make([]chatMessage, 0, len(call.History)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: SystemPrompt})
	for _, m := range call.History {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgs = append(msgs, chatMessage{Role: normalizeRole(m.Role), Content: m.Content})
	}
	msgs = append(msgs, chatMessage{Role: RoleUser, Content: call.Prompt})
	return msgs
}

func normalizeGroqModel(input string) (string, string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return defaultGroqModel, ""
	}
	key := strings.ToLower(strings.Join(strings.Fields(trimmed), "-"))
	if canonical, ok := groqModelCanonical[key]; ok {
		return canonical, ""
	}
	if alias, ok := groqModelAliases[key]; ok {
		return alias, "alias"
	}
	return defaultGroqModel, "defaulted"
}

var _ Generator = (*Groq)(nil)
