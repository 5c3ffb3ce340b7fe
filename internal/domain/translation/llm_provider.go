package translation

import (
	"context"
	"fmt"

	"plantid-bot-go/internal/domain/llm"
	"plantid-bot-go/internal/platform/errors"
)

// LLMProvider translates through a chat-completion model.
type LLMProvider struct {
	gen   llm.Generator
	model string
}

func NewLLMProvider(gen llm.Generator, model string) *LLMProvider {
	return &LLMProvider{gen: gen, model: model}
}

func (p *LLMProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	from := "the detected source language"
	if source != "" && source != AutoDetect {
		from = source
	}
	res, err := p.gen.Generate(ctx, llm.GenerateRequest{
		Model: p.model,
		Messages: []llm.Message{
			{
				Role: llm.RoleSystem,
				Content: fmt.Sprintf("Translate the user's text from %s to the language with code %q. "+
					"Keep emoji, HTML tags and markdown markers unchanged. Reply with the translation only.", from, target),
			},
			{Role: llm.RoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", errors.Wrap(errors.KindTranslation, "translate.llm", "provider call failed", err)
	}
	return res.Content, nil
}
