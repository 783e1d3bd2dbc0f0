package classify

import "strings"

// Identifier is a collected doc-number with the bucket it was placed in.
type Identifier struct {
	Number string `json:"number"`
	Bucket Bucket `json:"bucket"`
	// Source names the blob the number was first seen in.
	Source string `json:"source,omitempty"`
}

// Collector accumulates doc-numbers into buckets, keeping the first
// occurrence of each number across all buckets.
// A Collector is not safe for concurrent use.
type Collector struct {
	buckets [3][]Identifier
	seen    map[string]struct{}
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Add places number in bucket unless it is blank or was already added to
// any bucket. It reports whether the number was added.
func (c *Collector) Add(number string, bucket Bucket) bool {
	return c.AddFrom(number, bucket, "")
}

// AddFrom is like Add and records the source the number came from.
func (c *Collector) AddFrom(number string, bucket Bucket, source string) bool {
	if strings.TrimSpace(number) == "" {
		return false
	}
	if !bucket.Valid() {
		bucket = Other
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, dup := c.seen[number]; dup {
		return false
	}
	c.seen[number] = struct{}{}
	c.buckets[bucket] = append(c.buckets[bucket], Identifier{
		Number: number,
		Bucket: bucket,
		Source: source,
	})
	return true
}

// Seen reports whether number has been added.
func (c *Collector) Seen(number string) bool {
	_, ok := c.seen[number]
	return ok
}

// Len returns the number of collected identifiers.
func (c *Collector) Len() int {
	return len(c.seen)
}

// Bucket returns the numbers in b, in insertion order.
func (c *Collector) Bucket(b Bucket) []string {
	if !b.Valid() {
		return nil
	}
	out := make([]string, 0, len(c.buckets[b]))
	for _, id := range c.buckets[b] {
		out = append(out, id.Number)
	}
	return out
}

// Identifiers returns every collected identifier, EPO first, then
// PatentOffice, then Other.
func (c *Collector) Identifiers() []Identifier {
	out := make([]Identifier, 0, c.Len())
	for _, b := range Buckets {
		out = append(out, c.buckets[b]...)
	}
	return out
}

// Numbers returns the collected numbers in priority order.
func (c *Collector) Numbers() []string {
	out := make([]string, 0, c.Len())
	for _, id := range c.Identifiers() {
		out = append(out, id.Number)
	}
	return out
}
