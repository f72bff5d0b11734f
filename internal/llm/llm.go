// File path: internal/llm/llm.go
package llm

import (
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/config"
	"github.com/ananyap-codes/TDSproj2/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider selects the collaborator: OpenAI when an API key is present
// in the environment, Ollama when the config names a host, otherwise the
// offline stub.
func NewProvider(cfg config.Config) Provider {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); timeoutStr != "" {
			timeout, err := time.ParseDuration(timeoutStr)
			if err != nil {
				logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
			} else {
				logger.Info("llm: configuring OpenAI client with custom HTTP timeout", "timeout", timeout)
				opts = append(opts, option.WithRequestTimeout(timeout))
			}
		}
		if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
			logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
			opts = append(opts, option.WithBaseURL(endpoint))
		} else {
			logger.Debug("llm: using default OpenAI endpoint")
		}
		client := openai.NewClient(opts...)
		logger.Info("llm: OpenAI provider selected")
		return providers.NewOpenAIProvider(client)
	}
	if host := strings.TrimSpace(cfg.OllamaHost); host != "" {
		provider, err := providers.NewOllamaProvider(host, cfg.OllamaModel)
		if err == nil {
			logger.Info("llm: Ollama provider selected", "host", host, "model", cfg.OllamaModel)
			return provider
		}
		logger.Warn("llm: Ollama provider unavailable; falling back to local provider", "error", err)
	}
	logger.Warn("llm: no collaborator configured; falling back to local provider")
	return providers.NewLocalProvider()
}
