package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/avoskres/plainlegal/internal/core/ports"
)

type TypeClassifier struct {
	gen ports.TextGenerator
}

func NewTypeClassifier(gen ports.TextGenerator) *TypeClassifier {
	return &TypeClassifier{gen: gen}
}

// ClassifyType labels the document with one of the known legal document
// types. An answer outside the known set is an error so the caller can use
// its keyword fallback instead of storing junk.
func (c *TypeClassifier) ClassifyType(ctx context.Context, filename, text string) (string, error) {
	response, err := c.gen.Generate(ctx, buildTypeClassificationPrompt(filename, text))
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(response)
	for _, docType := range documentTypes {
		if strings.EqualFold(answer, docType) {
			return docType, nil
		}
	}
	return "", fmt.Errorf("unrecognized document type %q", answer)
}
