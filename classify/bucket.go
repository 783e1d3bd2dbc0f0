// Package classify assigns patent document identifiers to provenance
// priority buckets and accumulates them in priority order.
//
// # Buckets
//
// Identifiers fall into one of three buckets, listed in output order:
//
//   - [EPO] - numbers from EPO/DOCDB records
//   - [PatentOffice] - numbers as published by the originating office
//   - [Other] - everything else
//
// The bucket is chosen from the format and load-source attributes of the
// enclosing document-id element by an ordered table of [Rule] values. The
// first rule that matches wins.
//
// # Collecting
//
// A [Collector] keeps one ordered sequence per bucket and a single seen set
// shared by all of them, so the first occurrence of a number fixes its
// bucket and position:
//
//	c := classify.NewCollector()
//	c.Add("EP001", classify.EPO)
//	c.Add("EP001", classify.PatentOffice) // dropped
//	c.Numbers()                           // ["EP001"]
package classify

import (
	"fmt"
	"strings"
)

// Bucket is a provenance priority bucket. Lower values sort first.
type Bucket int

const (
	// EPO holds numbers from EPO or DOCDB sourced document-id elements.
	EPO Bucket = iota
	// PatentOffice holds numbers in the originating office's format.
	PatentOffice
	// Other holds numbers that matched no rule.
	Other
)

// Buckets lists every bucket in output order.
var Buckets = []Bucket{EPO, PatentOffice, Other}

// String returns the bucket's name.
func (b Bucket) String() string {
	switch b {
	case EPO:
		return "epo"
	case PatentOffice:
		return "patent-office"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
}

// Valid reports whether b is one of the defined buckets.
func (b Bucket) Valid() bool {
	return b >= EPO && b <= Other
}

// MarshalText implements encoding.TextMarshaler.
func (b Bucket) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid bucket %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bucket) UnmarshalText(text []byte) error {
	parsed, err := ParseBucket(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBucket parses a bucket name as returned by Bucket.String.
// Matching ignores case and surrounding whitespace.
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "epo":
		return EPO, nil
	case "patent-office":
		return PatentOffice, nil
	case "other":
		return Other, nil
	default:
		return Other, fmt.Errorf("unknown bucket %q", s)
	}
}
