package usecase

import (
	"context"
	"fmt"
	"strings"

	"AutoPublisher/internal/article"
	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/ports"
)

// ArticleGenerator turns a topic into a parsed article via the text generator.
type ArticleGenerator struct {
	generator ports.TextGenerator
	template  string
	mode      article.ParseMode
}

// NewArticleGenerator wires the generator with a prompt template and parse mode.
func NewArticleGenerator(gen ports.TextGenerator, template string, mode article.ParseMode) *ArticleGenerator {
	return &ArticleGenerator{generator: gen, template: template, mode: mode}
}

// GenerateArticle fails with domain.ErrGenerationFailed on transport or empty
// responses and with domain.ErrIncompleteArticle when parsing leaves a field empty.
func (g *ArticleGenerator) GenerateArticle(ctx context.Context, topic string) (domain.GeneratedArticle, error) {
	if g.generator == nil {
		return domain.GeneratedArticle{}, fmt.Errorf("%w: generator is not configured", domain.ErrGenerationFailed)
	}

	raw, err := g.generator.Generate(ctx, article.BuildPrompt(g.template, topic))
	if err != nil {
		return domain.GeneratedArticle{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(raw) == "" {
		return domain.GeneratedArticle{}, fmt.Errorf("%w: empty response", domain.ErrGenerationFailed)
	}

	return article.Parse(raw, g.mode)
}
