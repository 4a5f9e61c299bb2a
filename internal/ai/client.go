package ai

import "context"

// Client formats content through a remote model.
type Client interface {
	Format(ctx context.Context, content string, tone Tone) (string, error)
}
