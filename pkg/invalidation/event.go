// Package invalidation consumes out-of-band mutation events and converts
// them into cache sweeps. Mutations the storefront itself performs
// invalidate inline on their write paths; this package covers the rest —
// shipping webhooks, back-office imports, anything that changes entity state
// without passing through the service layer.
package invalidation

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event describes one out-of-band mutation. Entity names the cache namespace
// family affected; Scope optionally narrows the sweep to one scope id (a
// vendor, a parent category).
type Event struct {
	Entity string `json:"entity"`
	Scope  string `json:"scope,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ParseEvent decodes an event payload.
func ParseEvent(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, fmt.Errorf("undecodable invalidation event: %w", err)
	}
	if evt.Entity == "" {
		return Event{}, fmt.Errorf("invalidation event missing entity")
	}
	return evt, nil
}

// Invalidator handles the cache sweep for one entity family. Handlers are
// fail-open like every other invalidation path: they log and swallow store
// failures rather than returning them.
type Invalidator func(ctx context.Context, evt Event)
