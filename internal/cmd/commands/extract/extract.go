package extract

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/tsawler/patentid"
	"github.com/tsawler/patentid/classify"
	"github.com/tsawler/patentid/internal/cmd/base"
)

type Command struct {
	*base.Command

	// Fs is the filesystem paths are read from; nil means the OS.
	Fs afero.Fs

	flagJSON          bool
	flagSkipMalformed bool
	flagWithBuckets   bool
	flagBuckets       bucketList
	flagLogLevel      string
}

// bucketList is a repeatable, comma separated list of bucket names.
type bucketList []classify.Bucket

func (l *bucketList) String() string {
	names := make([]string, 0, len(*l))
	for _, b := range *l {
		names = append(names, b.String())
	}
	return strings.Join(names, ",")
}

func (l *bucketList) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		var b classify.Bucket
		if err := b.UnmarshalText([]byte(name)); err != nil {
			return err
		}
		*l = append(*l, b)
	}
	return nil
}

func (l bucketList) has(b classify.Bucket) bool {
	for _, want := range l {
		if want == b {
			return true
		}
	}
	return false
}

// result is the JSON rendering of one extracted path.
type result struct {
	Path        string                `json:"path"`
	Numbers     []string              `json:"numbers,omitempty"`
	Identifiers []patentid.Identifier `json:"identifiers,omitempty"`
	Warnings    []string              `json:"warnings,omitempty"`
}

func (c *Command) Synopsis() string {
	return "Extract doc-numbers from XML files or ZIP archives"
}

func (c *Command) Help() string {
	return `Usage: patentid extract [options] PATH...

  This command prints the unique doc-numbers found in document-id elements
  of each PATH, epo numbers first, then patent-office, then other.
  PATH may be an XML file or a ZIP archive of XML files.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("extract", flag.ContinueOnError))

	f.BoolVar(
		&c.flagJSON, "json", false,
		"Print results as JSON.",
	)
	f.BoolVar(
		&c.flagSkipMalformed, "skip-malformed", false,
		"Skip XML documents that are not well-formed instead of failing.",
	)
	f.BoolVar(
		&c.flagWithBuckets, "with-buckets", false,
		"Print the provenance bucket next to each doc-number.",
	)
	c.flagBuckets = nil
	f.Var(
		&c.flagBuckets, "bucket",
		"Only print doc-numbers from these buckets (epo, patent-office, other). "+
			"May be comma separated or repeated.",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "warn",
		"Log level for diagnostics (trace, debug, info, warn, error, off).",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	paths := flags.Args()
	if len(paths) == 0 {
		ui.Error("at least one PATH is required")
		return 1
	}

	level := hclog.LevelFromString(c.flagLogLevel)
	if level == hclog.NoLevel {
		ui.Error(fmt.Sprintf("invalid log level %q", c.flagLogLevel))
		return 1
	}
	logger := c.Log.ResetNamed("extract")
	logger.SetLevel(level)

	var errs *multierror.Error
	results := []result{}
	for _, path := range paths {
		ext := patentid.Open(path).Fs(c.Fs).Logger(logger.With("path", path))
		if c.flagSkipMalformed {
			ext = ext.SkipMalformed()
		}

		ids, warnings, err := ext.Identifiers()
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		logger.Debug("extracted doc-numbers", "path", path, "count", len(ids), "warnings", len(warnings))
		if len(c.flagBuckets) > 0 {
			ids = c.filter(ids)
		}

		r := result{Path: path}
		for _, w := range warnings {
			r.Warnings = append(r.Warnings, w.String())
		}
		if c.flagWithBuckets {
			r.Identifiers = ids
		} else {
			r.Numbers = make([]string, 0, len(ids))
			for _, id := range ids {
				r.Numbers = append(r.Numbers, id.Number)
			}
		}
		results = append(results, r)
	}

	if c.flagJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			ui.Error(fmt.Sprintf("error encoding results: %v", err))
			return 1
		}
		ui.Output(string(out))
	} else {
		c.printText(results, len(paths) > 1)
	}

	if err := errs.ErrorOrNil(); err != nil {
		ui.Error(strings.TrimSpace(err.Error()))
		return 1
	}
	return 0
}

func (c *Command) filter(ids []patentid.Identifier) []patentid.Identifier {
	kept := make([]patentid.Identifier, 0, len(ids))
	for _, id := range ids {
		if c.flagBuckets.has(id.Bucket) {
			kept = append(kept, id)
		}
	}
	return kept
}

func (c *Command) printText(results []result, withHeader bool) {
	for _, r := range results {
		if withHeader {
			c.UI.Info(fmt.Sprintf("==> %s", r.Path))
		}
		for _, id := range r.Identifiers {
			c.UI.Output(fmt.Sprintf("%s\t%s", id.Number, id.Bucket))
		}
		for _, n := range r.Numbers {
			c.UI.Output(n)
		}
	}
}
