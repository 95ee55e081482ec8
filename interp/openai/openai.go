// Package openai implements the model effect family using the OpenAI Chat
// Completions API. It maps effect.ModelCall descriptors onto the SDK's
// request parameters and resolves with the generated text as the raw result.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/pureloop/pureloop/effect"
)

// Options configure the OpenAI interpreter. Fields mirror a minimal subset
// of Chat Completion parameters; they apply when the descriptor leaves the
// corresponding field unset.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Interpreter resolves effect.ModelCall descriptors via OpenAI.
type Interpreter struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI interpreter using the official client with
// credentials from the environment.
func New(optFns ...func(o *Options)) *Interpreter {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an OpenAI interpreter from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Interpreter {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Interpreter{client: client, opts: opts}
}

// Family implements interp.FamilyInterpreter.
func (*Interpreter) Family() string { return effect.FamilyModel }

// Execute performs a non-streaming completion for the described call and
// resolves with the generated text.
func (i *Interpreter) Execute(ctx context.Context, descriptor any) (any, error) {
	d, ok := descriptor.(effect.ModelCall)
	if !ok {
		return nil, fmt.Errorf("openai: unexpected descriptor %T", descriptor)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if d.System != "" {
		messages = append(messages, openai.SystemMessage(d.System))
	}
	messages = append(messages, openai.UserMessage(d.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               i.opts.Model,
		Temperature:         openai.Float(i.opts.Temperature),
		MaxCompletionTokens: openai.Int(i.opts.MaxCompletionTokens),
	}
	if d.Model != "" {
		params.Model = d.Model
	}
	if d.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(d.MaxTokens)
	}

	resp, err := i.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
