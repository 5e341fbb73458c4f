package ports

import (
	"context"

	"github.com/flashnodes/flashnodes/core"
)

// EventPublisher notifies other components about auth and lifecycle events.
// Publishing is best-effort; callers log failures and carry on.
type EventPublisher interface {
	PublishLogin(ctx context.Context, address string) error
	PublishProjectCreated(ctx context.Context, p *core.Project) error
	PublishProjectUpdated(ctx context.Context, p *core.Project) error
	PublishProjectDeleted(ctx context.Context, nodeID string) error
}
