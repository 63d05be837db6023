package github

import (
	"context"

	"github.com/tamnara/scrumbot/internal/tracking"
)

// ProjectSource exposes a GitHub Projects v2 board as a tracking.ItemSource.
type ProjectSource struct {
	Client *Client
}

func NewProjectSource(client *Client) *ProjectSource {
	return &ProjectSource{Client: client}
}

var _ tracking.ItemSource = (*ProjectSource)(nil)

func (p *ProjectSource) Name() string {
	return "GitHub Projects"
}

func (p *ProjectSource) HealthCheck(ctx context.Context) error {
	return p.Client.HealthCheck(ctx)
}

// FetchItems fails only when the board could not be read at all. Later page
// failures are logged by the client and show up as fewer items.
func (p *ProjectSource) FetchItems(ctx context.Context) ([]tracking.Item, error) {
	return p.Client.FetchAll(ctx)
}
