package command

import "context"

// Client runs the interactive terminal loop.
type Client interface {
	Run(ctx context.Context) error
}
