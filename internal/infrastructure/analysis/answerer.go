package analysis

import (
	"context"

	"github.com/avoskres/plainlegal/internal/core/ports"
)

type Answerer struct {
	gen ports.TextGenerator
}

func NewAnswerer(gen ports.TextGenerator) *Answerer {
	return &Answerer{gen: gen}
}

func (a *Answerer) GenerateAnswer(ctx context.Context, question, history, contextBlock string) (string, error) {
	return a.gen.Generate(ctx, buildAnswerPrompt(question, history, contextBlock))
}
