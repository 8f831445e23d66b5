// Package aitool forwards text rewriting and image generation requests to an
// OpenAI-compatible provider. Without an API key the tools are still listed but
// every call fails with toolbox.ErrNotConfigured.
package aitool

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/skosovsky/toolbox"
)

// Text operations with a dedicated system prompt. Any other operation uses DefaultPrompt.
const (
	OpParaphrase = "paraphrase"
	OpEnhance    = "enhance"
	OpSummarize  = "summarize"
)

// DefaultPrompt is the system prompt for unrecognized operations.
const DefaultPrompt = "You are a helpful assistant."

var prompts = map[string]string{
	OpParaphrase: "You are a paraphrasing assistant. Rewrite the given text while maintaining its meaning. Return only the paraphrased text.",
	OpEnhance:    "You are a text enhancement assistant. Improve the given text for clarity, grammar, and style. Return only the enhanced text.",
	OpSummarize:  "You are a summarization assistant. Create a concise summary of the given text. Return only the summary.",
}

// SystemPrompt returns the system prompt for operation.
func SystemPrompt(operation string) string {
	if p, ok := prompts[operation]; ok {
		return p
	}
	return DefaultPrompt
}

// Config describes the provider connection.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	// Timeout bounds one provider call, including retries.
	Timeout    time.Duration
	MaxRetries int
}

// Provider calls the chat completion and image generation endpoints.
type Provider struct {
	client  openai.Client
	cfg     Config
	enabled bool
}

// NewProvider returns a Provider for cfg. With an empty APIKey the provider is disabled.
func NewProvider(cfg Config) *Provider {
	if cfg.APIKey == "" {
		return &Provider{cfg: cfg}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Provider{client: openai.NewClient(opts...), cfg: cfg, enabled: true}
}

// Enabled reports whether the provider has credentials.
func (p *Provider) Enabled() bool { return p != nil && p.enabled }

var errEmptyResponse = errors.New("provider returned no choices")

func notConfigured() error {
	return &toolbox.SystemError{Err: toolbox.ErrNotConfigured}
}

// Text sends text under the system prompt for operation and returns the reply.
func (p *Provider) Text(ctx context.Context, text, operation string) (string, error) {
	if !p.Enabled() {
		return "", notConfigured()
	}
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt(operation)),
			openai.UserMessage(text),
		},
		Model: openai.ChatModel(p.cfg.TextModel),
	})
	if err != nil {
		return "", &toolbox.SystemError{Err: err}
	}
	if len(completion.Choices) == 0 {
		return "", &toolbox.SystemError{Err: errEmptyResponse}
	}
	return completion.Choices[0].Message.Content, nil
}

// Image generates one image for prompt and returns its URL.
func (p *Provider) Image(ctx context.Context, prompt, size string) (string, error) {
	if !p.Enabled() {
		return "", notConfigured()
	}
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(p.cfg.ImageModel),
		Size:   openai.ImageGenerateParamsSize(size),
		N:      openai.Int(1),
	})
	if err != nil {
		return "", &toolbox.SystemError{Err: err}
	}
	if len(resp.Data) == 0 {
		return "", &toolbox.SystemError{Err: errEmptyResponse}
	}
	return resp.Data[0].URL, nil
}

type (
	TextArgs struct {
		Text      string `json:"text" validate:"min=1"`
		Operation string `json:"operation" description:"paraphrase, enhance or summarize; anything else uses a generic assistant"`
	}
	TextResult struct {
		Result string `json:"result"`
	}
	ImageArgs struct {
		Prompt string `json:"prompt" validate:"min=1"`
		Size   string `json:"size,omitempty" enum:"256x256,512x512,1024x1024,1792x1024,1024x1792" default:"1024x1024"`
	}
	ImageResult struct {
		ImageURL string `json:"image_url"`
	}
)

// Tools returns the AI tools backed by p. p may be nil. Both tools are flagged dangerous
// because every call is a billed upstream request.
func Tools(p *Provider) []toolbox.Tool {
	opts := []toolbox.ToolOption{toolbox.WithTags(toolbox.TagExternal), toolbox.WithDangerous()}
	if p != nil && p.cfg.Timeout > 0 {
		opts = append(opts, toolbox.WithTimeout(p.cfg.Timeout))
	}
	return []toolbox.Tool{
		toolbox.MustTool("ai/text", "Paraphrase, enhance or summarize text with a language model",
			func(ctx context.Context, a TextArgs) (TextResult, error) {
				out, err := p.Text(ctx, a.Text, a.Operation)
				return TextResult{Result: out}, err
			}, opts...),
		toolbox.MustTool("ai/image", "Generate an image from a prompt",
			func(ctx context.Context, a ImageArgs) (ImageResult, error) {
				size := a.Size
				if size == "" {
					size = "1024x1024"
				}
				url, err := p.Image(ctx, a.Prompt, size)
				return ImageResult{ImageURL: url}, err
			}, opts...),
	}
}
