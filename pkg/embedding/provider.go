package embedding

import "context"

// Provider defines the interface for generating text embeddings. A single
// model identity is used for both queries and catalog text so that cosine
// similarity between the two is meaningful.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
