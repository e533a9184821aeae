package vectorstore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/ragkit/internal/interfaces"
)

// embedConcurrency bounds concurrent embedding calls per upsert
const embedConcurrency = 4

// embedTexts embeds texts concurrently, returning vectors in input order
func embedTexts(ctx context.Context, embedder interfaces.EmbeddingDriver, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for i, text := range texts {
		g.Go(func() error {
			vector, err := embedder.EmbedString(gCtx, text)
			if err != nil {
				return fmt.Errorf("failed to embed text %d: %w", i, err)
			}
			vectors[i] = vector
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}
