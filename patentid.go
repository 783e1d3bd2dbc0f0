// Package patentid provides a fluent API for extracting patent doc-numbers
// from XML files and ZIP archives of XML files, ordered by provenance.
//
// Every document-id element is located regardless of namespace, its first
// doc-number child is read, and the number is classified from the
// element's format and load-source attributes into the epo,
// patent-office or other bucket. Numbers are de-duplicated across all
// buckets and returned epo first, then patent-office, then other.
//
// Basic usage:
//
//	numbers, err := patentid.ExtractDocNumbers("bundle.zip")
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	ids, warnings, err := patentid.Open("bundle.zip").
//	    Logger(logger).
//	    SkipMalformed().
//	    Identifiers()
package patentid

import (
	"github.com/tsawler/patentid/source"
	"github.com/tsawler/patentid/xmltree"
)

// Errors returned by extraction. Use errors.Is and errors.As to test
// for them.
var (
	// ErrNotFound is returned when the path is not an existing regular file.
	ErrNotFound = source.ErrNotFound
	// ErrEmptyArchive is returned for a ZIP archive without .xml entries.
	ErrEmptyArchive = source.ErrEmptyArchive
)

type (
	// IOError wraps a failure to read the source, with its path.
	IOError = source.IOError
	// SyntaxError reports a blob that is not well-formed XML.
	SyntaxError = xmltree.SyntaxError
	// Blob is the decoded text of one XML document.
	Blob = source.Blob
)

// Open returns an Extractor for the file at path. Nothing is read until a
// terminal operation such as DocNumbers is called.
//
// Example:
//
//	numbers, warnings, err := patentid.Open("bundle.zip").DocNumbers()
func Open(path string) *Extractor {
	return &Extractor{
		path:    path,
		options: defaultOptions(),
	}
}

// FromBlobs returns an Extractor over already loaded XML text, in order.
//
// Example:
//
//	numbers, _, err := patentid.FromBlobs(patentid.Blob{Name: "a.xml", Text: xml}).DocNumbers()
func FromBlobs(blobs ...Blob) *Extractor {
	return &Extractor{
		blobs:   append([]Blob{}, blobs...),
		options: defaultOptions(),
	}
}

// ExtractDocNumbers reads the file at path and returns its unique
// doc-numbers in priority order. Any failure aborts the run.
func ExtractDocNumbers(path string) ([]string, error) {
	numbers, _, err := Open(path).DocNumbers()
	return numbers, err
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	numbers := patentid.Must(patentid.ExtractDocNumbers("doc.xml"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustNumbers is like Must for terminal operations that also return
// warnings. The warnings are discarded.
//
// Example:
//
//	numbers := patentid.MustNumbers(patentid.Open("doc.xml").DocNumbers())
func MustNumbers[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
