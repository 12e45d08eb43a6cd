package embedding

import "context"

// Provider defines the interface for generating text embeddings.
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
