// Package anthropic implements the model effect family using the Anthropic
// Messages API. It maps effect.ModelCall descriptors onto the SDK's request
// parameters and resolves with the generated text as the raw result.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/pureloop/pureloop/effect"
)

// Options configure the Anthropic interpreter; fields apply when the
// descriptor leaves the corresponding field unset.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
}

// Interpreter resolves effect.ModelCall descriptors via Anthropic.
type Interpreter struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic interpreter using the official client with
// credentials from the environment.
func New(optFns ...func(o *Options)) *Interpreter {
	client := anthropic.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an Anthropic interpreter from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Interpreter {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Interpreter{client: client, opts: opts}
}

// Family implements interp.FamilyInterpreter.
func (*Interpreter) Family() string { return effect.FamilyModel }

// Execute performs a non-streaming message creation for the described call
// and resolves with the concatenated text blocks of the reply.
func (i *Interpreter) Execute(ctx context.Context, descriptor any) (any, error) {
	d, ok := descriptor.(effect.ModelCall)
	if !ok {
		return nil, fmt.Errorf("anthropic: unexpected descriptor %T", descriptor)
	}

	params := anthropic.MessageNewParams{
		Model:       i.opts.Model,
		MaxTokens:   i.opts.MaxTokens,
		Temperature: anthropic.Float(i.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(d.Prompt)),
		},
	}
	if d.Model != "" {
		params.Model = anthropic.Model(d.Model)
	}
	if d.MaxTokens > 0 {
		params.MaxTokens = d.MaxTokens
	}
	if d.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: d.System}}
	}

	resp, err := i.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	return text.String(), nil
}
