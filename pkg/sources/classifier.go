package sources

import "sort"

// Classifier answers category and credibility lookups against an immutable
// source table. All state is built once in NewClassifier; lookups perform no
// writes, so a single instance is safe for concurrent use.
type Classifier struct {
	entries    map[string]SourceEntry
	byCategory map[Category][]string
}

// NewClassifier builds a classifier from the given table. Each entry's domain
// is reduced to its registrable domain; when two entries collapse onto the
// same domain the higher-priority one wins (ties keep the first seen), which
// makes construction deterministic regardless of table order.
func NewClassifier(entries []SourceEntry) *Classifier {
	c := &Classifier{
		entries:    make(map[string]SourceEntry, len(entries)),
		byCategory: make(map[Category][]string),
	}

	for _, e := range entries {
		d := ExtractDomain(e.Domain)
		if d == "" {
			continue
		}
		if prev, ok := c.entries[d]; ok && prev.Priority >= e.Priority {
			continue
		}
		e.Domain = d
		c.entries[d] = e
	}

	for d, e := range c.entries {
		c.byCategory[e.Category] = append(c.byCategory[e.Category], d)
	}
	for _, domains := range c.byCategory {
		sort.Strings(domains)
	}

	return c
}

// Default returns a classifier over the curated credible-sources table.
func Default() *Classifier {
	return NewClassifier(DefaultTable())
}

// Entry looks up the table entry for a URL or hostname. The boolean reports
// whether the registrable domain is part of the table.
func (c *Classifier) Entry(raw string) (SourceEntry, bool) {
	e, ok := c.entries[ExtractDomain(raw)]

	return e, ok
}

// CategoryFor returns the category of a URL or hostname, or CategoryOther for
// domains outside the table. It never fails on malformed input.
func (c *Classifier) CategoryFor(raw string) Category {
	if e, ok := c.Entry(raw); ok {
		return e.Category
	}

	return CategoryOther
}

// PriorityFor returns the credibility weight of a URL or hostname, or
// DefaultPriority for domains outside the table.
func (c *Classifier) PriorityFor(raw string) float64 {
	if e, ok := c.Entry(raw); ok {
		return e.Priority
	}

	return DefaultPriority
}

// Known reports whether the registrable domain of raw is part of the table.
func (c *Classifier) Known(raw string) bool {
	_, ok := c.Entry(raw)

	return ok
}

// Domains returns the registrable domains of a category in sorted order. The
// returned slice is a copy.
func (c *Classifier) Domains(cat Category) []string {
	domains := c.byCategory[cat]
	out := make([]string, len(domains))
	copy(out, domains)

	return out
}

// Len returns the number of distinct registrable domains in the table.
func (c *Classifier) Len() int { return len(c.entries) }
