package generation

import (
	"fmt"
	"strings"
	"time"
)

// Settings selects and configures a backend.
type Settings struct {
	Provider string
	Timeout  time.Duration

	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	OnWarning func(reason, detail string)
}

// New returns the backend named by s.Provider. An empty name selects groq.
func New(s Settings) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", groqProviderName:
		return NewGroq(GroqOptions{
			APIKey:    s.GroqAPIKey,
			Model:     s.GroqModel,
			BaseURL:   s.GroqBaseURL,
			Timeout:   s.Timeout,
			OnWarning: s.OnWarning,
		}), nil
	case anthropicProviderName:
		return NewAnthropic(AnthropicOptions{
			APIKey:  s.AnthropicAPIKey,
			Model:   s.AnthropicModel,
			Timeout: s.Timeout,
		}), nil
	case langChainProviderName:
		return NewLangChain(LangChainOptions{
			APIKey:  s.OpenAIAPIKey,
			Model:   s.OpenAIModel,
			BaseURL: s.OpenAIBaseURL,
			Timeout: s.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", s.Provider)
	}
}
