package framework

import (
	"pws-mentor-be/pkg/signal"
)

// Category groups frameworks by the phase of work they support.
type Category string

const (
	CategoryDiscovery Category = "discovery"
	CategorySolution  Category = "solution"
)

// Framework is one problem-solving methodology from the PWS library.
// Instances are immutable reference data loaded once at process start.
type Framework struct {
	ID            string
	Title         string
	Definition    string
	Category      Category
	Triggers      []signal.Kind
	Prerequisites []string
	Alternatives  []string
}

// Catalog is the process-wide framework lookup. All methods are safe for
// unlimited concurrent readers; there is no mutation API.
type Catalog struct {
	byID      map[string]Framework
	bySignal  map[signal.Kind]string
	orderedID []string
}

// NewCatalog builds the catalog from the builtin framework set.
func NewCatalog() *Catalog {
	c := &Catalog{
		byID:     make(map[string]Framework, len(builtinFrameworks)),
		bySignal: make(map[signal.Kind]string, len(signal.AllKinds)),
	}
	for _, f := range builtinFrameworks {
		c.byID[f.ID] = f
		c.orderedID = append(c.orderedID, f.ID)
		for _, trigger := range f.Triggers {
			c.bySignal[trigger] = f.ID
		}
	}
	return c
}

// Get returns the framework with the given id.
func (c *Catalog) Get(id string) (Framework, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// All returns every framework in load order.
func (c *Catalog) All() []Framework {
	out := make([]Framework, 0, len(c.orderedID))
	for _, id := range c.orderedID {
		out = append(out, c.byID[id])
	}
	return out
}

// FrameworksFor resolves a signal kind to its primary framework and that
// framework's alternatives.
func (c *Catalog) FrameworksFor(kind signal.Kind) (Framework, []Framework, bool) {
	id, ok := c.bySignal[kind]
	if !ok {
		return Framework{}, nil, false
	}
	primary := c.byID[id]
	alternatives := make([]Framework, 0, len(primary.Alternatives))
	for _, altID := range primary.Alternatives {
		if alt, ok := c.byID[altID]; ok {
			alternatives = append(alternatives, alt)
		}
	}
	return primary, alternatives, true
}

// PrerequisitesOf returns the ordered prerequisite chain of a framework.
func (c *Catalog) PrerequisitesOf(id string) []string {
	f, ok := c.byID[id]
	if !ok {
		return nil
	}
	return append([]string(nil), f.Prerequisites...)
}
