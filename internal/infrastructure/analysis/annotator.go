// Package analysis contains the model-backed document analysis components.
// Each component owns its prompt format and the parser for the model's
// labeled response; the text generator underneath is interchangeable.
package analysis

import (
	"context"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

type Annotator struct {
	gen ports.TextGenerator
}

func NewAnnotator(gen ports.TextGenerator) *Annotator {
	return &Annotator{gen: gen}
}

// Annotate classifies one section's text. The response format is a strict
// six-line labeled contract; parsing tolerates missing or extra lines.
func (a *Annotator) Annotate(ctx context.Context, text string) (domain.Annotation, error) {
	response, err := a.gen.Generate(ctx, buildAnnotationPrompt(text))
	if err != nil {
		return domain.Annotation{}, err
	}
	return parseAnnotation(response), nil
}
