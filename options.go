package patentid

import (
	"github.com/hashicorp/go-hclog"

	"github.com/tsawler/patentid/classify"
)

// ExtractOptions holds configuration for doc-number extraction.
type ExtractOptions struct {
	// Diagnostics for skipped document-id elements
	logger hclog.Logger

	// Classification table; nil means classify.DefaultRules
	rules []classify.Rule

	// Malformed blobs become warnings instead of failing the run
	skipMalformed bool
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		logger:        hclog.NewNullLogger(),
		rules:         nil,
		skipMalformed: false,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		logger:        o.logger,
		skipMalformed: o.skipMalformed,
	}

	if o.rules != nil {
		newOpts.rules = make([]classify.Rule, len(o.rules))
		copy(newOpts.rules, o.rules)
	}

	return newOpts
}
