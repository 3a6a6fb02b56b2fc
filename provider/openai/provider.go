package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"

	"github.com/quillworks/quill/pkg/slogx"
	"github.com/quillworks/quill/provider"

	"github.com/openai/openai-go/option"
)

// Provider implements provider.Provider on top of OpenAI's chat completions.
type Provider struct {
	client *openai.Client
}

// New creates a Provider with the given request options. Credentials default
// to the OPENAI_API_KEY environment variable, per the openai client.
func New(options ...option.RequestOption) *Provider {
	client := openai.NewClient(options...)
	return &Provider{
		client: client,
	}
}

func (p *Provider) buildRequest(params *provider.CompletionParams) (openai.ChatCompletionNewParams, error) {
	if params.Model == nil {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("completion model cannot be nil")
	}

	oaiParams := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(params.Instructions),
		}),
		Model:       openai.F(params.Model.Name()),
		N:           openai.Int(1),
		Temperature: openai.Float(0.1),
	}
	if params.Sender != "" {
		oaiParams.User = openai.String(params.Sender)
	}

	return oaiParams, nil
}

// Complete executes a single-shot chat completion and returns the full text
// of the first choice.
func (p *Provider) Complete(ctx context.Context, params provider.CompletionParams) (provider.Response, error) {
	chatParams, err := p.buildRequest(&params)
	if err != nil {
		return provider.Response{}, fmt.Errorf("failed to build request: %w", err)
	}

	chat, err := p.client.Chat.Completions.New(ctx, chatParams)
	if err != nil {
		slog.DebugContext(ctx, "chat completion failed",
			slog.String("sender", params.Sender),
			slogx.Stringer("run_id", params.RunID),
			slogx.Error(err),
		)
		return provider.Response{}, err
	}

	if len(chat.Choices) == 0 {
		return provider.Response{}, fmt.Errorf("chat completion returned no choices")
	}

	return provider.Response{
		Content: chat.Choices[0].Message.Content,
	}, nil
}
