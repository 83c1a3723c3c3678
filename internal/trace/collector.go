package trace

import (
	"sort"
	"sync"
)

// Collector accumulates runtime events, enriching each one as it arrives.
// It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	events   []*Event
	enricher Enricher
	limit    int
}

// DefaultLimit caps how many events a collector retains before dropping
// the oldest.
const DefaultLimit = 10000

// NewCollector builds a collector with the default enricher and limit.
func NewCollector() *Collector {
	return &Collector{
		enricher: DefaultEnricher,
		limit:    DefaultLimit,
	}
}

// WithEnricher replaces the enricher. A nil enricher disables enrichment.
func (c *Collector) WithEnricher(e Enricher) *Collector {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enricher = e
	return c
}

// Record builds an event from a dispatched call and retains it. The
// signature matches the registry's OnCall hook, so a collector attaches
// with one assignment:
//
//	rt.DefaultRegistry.OnCall = collector.Record
func (c *Collector) Record(category, name, detail string) {
	e := NewEvent(category, name, detail)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enricher != nil {
		c.enricher(e)
	}
	c.events = append(c.events, e)
	if c.limit > 0 && len(c.events) > c.limit {
		c.events = c.events[len(c.events)-c.limit:]
	}
}

// Events returns a snapshot of the retained events in arrival order.
func (c *Collector) Events() []*Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Event, len(c.events))
	copy(out, c.events)
	return out
}

// ByTag returns the retained events carrying the given tag.
func (c *Collector) ByTag(tag Tag) []*Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Event
	for _, e := range c.events {
		if e.Tags.Has(tag) {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns per-name call counts, with names sorted for stable output.
func (c *Collector) Counts() ([]string, map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[string]int)
	for _, e := range c.events {
		counts[e.Name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, counts
}

// Len reports how many events are retained.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Reset drops all retained events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
