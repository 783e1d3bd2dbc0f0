package patentid

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/tsawler/patentid/classify"
	"github.com/tsawler/patentid/source"
	"github.com/tsawler/patentid/xmltree"
)

// Element and attribute names read from patent XML.
const (
	documentIDElement = "document-id"
	docNumberElement  = "doc-number"
	formatAttr        = "format"
	loadSourceAttr    = "load-source"
)

// Identifier is a doc-number with the bucket it was classified into.
type Identifier = classify.Identifier

// Extractor provides a fluent interface for extracting doc-numbers.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	path  string
	fs    afero.Fs
	blobs []source.Blob

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:    e.path,
		fs:      e.fs,
		blobs:   e.blobs,
		options: e.options.clone(),
		err:     e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Fs sets the filesystem the source path is read from. The default is the
// OS filesystem.
//
// Example:
//
//	numbers, _, err := patentid.Open("/in/doc.xml").Fs(afero.NewMemMapFs()).DocNumbers()
func (e *Extractor) Fs(fsys afero.Fs) *Extractor {
	newExt := e.clone()
	newExt.fs = fsys
	return newExt
}

// Logger sets the logger that receives diagnostics, such as document-id
// elements skipped for lack of a doc-number.
func (e *Extractor) Logger(logger hclog.Logger) *Extractor {
	newExt := e.clone()
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	newExt.options.logger = logger
	return newExt
}

// Rules replaces the classification table. Rules are evaluated in order
// and the first match wins; unmatched numbers go to classify.Other.
func (e *Extractor) Rules(rules ...classify.Rule) *Extractor {
	newExt := e.clone()
	if len(rules) == 0 {
		newExt.err = fmt.Errorf("patentid: empty rule table")
		return newExt
	}
	newExt.options.rules = append([]classify.Rule(nil), rules...)
	return newExt
}

// SkipMalformed makes blobs that are not well-formed XML non-fatal: they
// are reported as warnings and the remaining blobs are still processed.
// The run fails only when every blob is malformed.
//
// By default the first malformed blob aborts the run.
func (e *Extractor) SkipMalformed() *Extractor {
	newExt := e.clone()
	newExt.options.skipMalformed = true
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// DocNumbers extracts the unique doc-numbers in priority order: epo
// first, then patent-office, then other, each in first-seen order.
//
// Example:
//
//	numbers, warnings, err := patentid.Open("bundle.zip").DocNumbers()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", patentid.FormatWarnings(warnings))
//	}
func (e *Extractor) DocNumbers() ([]string, []Warning, error) {
	c, warnings, err := e.run()
	if err != nil {
		return nil, warnings, err
	}
	return c.Numbers(), warnings, nil
}

// Identifiers is like DocNumbers but also reports the bucket and source
// blob of every number.
func (e *Extractor) Identifiers() ([]Identifier, []Warning, error) {
	c, warnings, err := e.run()
	if err != nil {
		return nil, warnings, err
	}
	return c.Identifiers(), warnings, nil
}

// run loads every blob, then walks them in order into a Collector.
func (e *Extractor) run() (*classify.Collector, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	blobs, err := e.load()
	if err != nil {
		return nil, nil, err
	}

	log := e.options.logger
	classifier := classify.NewClassifier(e.options.rules...)
	collector := classify.NewCollector()

	var (
		warnings  []Warning
		malformed *multierror.Error
	)

	for _, blob := range blobs {
		root, err := xmltree.Parse(blob.Text)
		if err != nil {
			err = fmt.Errorf("parsing %s: %w", blob.Name, err)
			if !e.options.skipMalformed {
				return nil, warnings, err
			}
			log.Warn("skipping malformed XML", "source", blob.Name, "error", err)
			malformed = multierror.Append(malformed, err)
			warnings = append(warnings, Warning{
				Kind:    WarnMalformedXML,
				Source:  blob.Name,
				Message: err.Error(),
			})
			continue
		}

		added := 0
		for _, docID := range root.FindAll(documentIDElement) {
			number, ok := docNumber(docID)
			if !ok {
				attrs := map[string]string{
					formatAttr:     docID.Attribute(formatAttr),
					loadSourceAttr: docID.Attribute(loadSourceAttr),
				}
				log.Warn("missing or empty doc-number under document-id",
					"source", blob.Name,
					formatAttr, attrs[formatAttr],
					loadSourceAttr, attrs[loadSourceAttr])
				warnings = append(warnings, Warning{
					Kind:       WarnMissingDocNumber,
					Source:     blob.Name,
					Message:    "missing or empty doc-number under document-id",
					Attributes: attrs,
				})
				continue
			}

			if collector.Seen(number) {
				log.Trace("duplicate doc-number", "source", blob.Name, "number", number)
				continue
			}
			bucket := classifier.Classify(classify.NewAttributes(
				docID.Attribute(formatAttr),
				docID.Attribute(loadSourceAttr),
			))
			if collector.AddFrom(number, bucket, blob.Name) {
				added++
			}
		}
		log.Debug("processed blob", "source", blob.Name, "added", added, "total", collector.Len())
	}

	if malformed != nil && malformed.Len() == len(blobs) {
		return nil, warnings, malformed.ErrorOrNil()
	}
	return collector, warnings, nil
}

// load returns the blobs to process, reading the source path if needed.
func (e *Extractor) load() ([]source.Blob, error) {
	if e.blobs != nil {
		return e.blobs, nil
	}
	if e.path == "" {
		return nil, fmt.Errorf("patentid: no path specified")
	}
	return source.NewLoader(e.fs, e.options.logger).Load(e.path)
}

// docNumber returns the trimmed text of the first doc-number child of
// docID, and false when it is missing or blank.
func docNumber(docID *xmltree.Element) (string, bool) {
	child := docID.FirstChild(docNumberElement)
	if child == nil {
		return "", false
	}
	number := strings.TrimSpace(child.Text)
	if number == "" {
		return "", false
	}
	return number, true
}
