package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewWindow = 24 * time.Hour

type ViewTracker interface {
	// FirstView reports whether viewer has not been counted for posterID in the current window.
	FirstView(ctx context.Context, posterID, viewer string) (bool, error)
}

type viewTracker struct {
	client *redis.Client
}

// NewViewTracker counts every view when client is nil.
func NewViewTracker(client *redis.Client) ViewTracker {
	return &viewTracker{client: client}
}

func ViewKey(posterID, viewer string) string {
	return fmt.Sprintf("poster_viewed:%s:%s", posterID, viewer)
}

func (t *viewTracker) FirstView(ctx context.Context, posterID, viewer string) (bool, error) {
	if t.client == nil {
		return true, nil
	}
	return t.client.SetNX(ctx, ViewKey(posterID, viewer), "1", viewWindow).Result()
}
