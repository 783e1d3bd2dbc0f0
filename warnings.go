package patentid

import (
	"fmt"
	"strings"
)

// WarningKind identifies the type of non-fatal issue.
type WarningKind int

const (
	// WarnMissingDocNumber is reported for a document-id element without a
	// non-blank doc-number child.
	WarnMissingDocNumber WarningKind = iota
	// WarnMalformedXML is reported for a blob skipped by SkipMalformed.
	WarnMalformedXML
)

// String returns a short name for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnMissingDocNumber:
		return "missing-doc-number"
	case WarnMalformedXML:
		return "malformed-xml"
	default:
		return "unknown"
	}
}

// Warning describes a non-fatal issue encountered during extraction.
type Warning struct {
	Kind WarningKind
	// Source is the blob the issue was found in.
	Source  string
	Message string
	// Attributes holds the format and load-source values of a skipped
	// document-id element.
	Attributes map[string]string
}

// String formats the warning on a single line.
func (w Warning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", w.Kind, w.Message)
	if w.Source != "" {
		fmt.Fprintf(&b, " (%s)", w.Source)
	}
	return b.String()
}

// FormatWarnings joins warnings into a human-readable string, one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}
	return strings.Join(lines, "\n")
}
