package service

import (
	"context"
	"sync"

	"github.com/lysokunvoath/grex/internal/models"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []GroupEvent
}

func (p *recordingPublisher) Publish(e GroupEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// countingCache is a map-backed PublicGroupCache that counts invalidations.
type countingCache struct {
	entries      map[string][]models.Group
	invalidation int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string][]models.Group)}
}

func (c *countingCache) GetPublic(_ context.Context, q string) ([]models.Group, bool) {
	g, ok := c.entries[q]
	return g, ok
}

func (c *countingCache) SetPublic(_ context.Context, q string, groups []models.Group) {
	c.entries[q] = groups
}

func (c *countingCache) InvalidatePublic(context.Context) {
	c.invalidation++
	c.entries = make(map[string][]models.Group)
}
